package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/rs/zerolog"
)

const filterAll = "all"

// ReviewFilter narrows an applicant pool. Empty Status means pending;
// "all" disables a filter.
type ReviewFilter struct {
	Status           string `form:"status" json:"status" binding:"omitempty,oneof=all pending accepted rejected waitlisted confirmed declined"`
	Prioritized      string `form:"prioritized" json:"prioritized" binding:"omitempty,oneof=all yes no"`
	AcademicYear     string `form:"academicYear" json:"academicYear"`
	CodingExperience string `form:"codingExperience" json:"codingExperience"`
	TopN             int    `form:"top" json:"top" binding:"min=0"`
}

// ReviewPage is one page of a ranked applicant pool plus the facet values
// its filters offer.
type ReviewPage struct {
	table.Page
	Filter            ReviewFilter `json:"filter"`
	AcademicYears     []string     `json:"academicYears"`
	CodingExperiences []string     `json:"codingExperiences"`
}

// ParticipantService backs the participant application review screens.
type ParticipantService struct {
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	table *table.Table[model.RegistrationScore]
	log   zerolog.Logger
}

func NewParticipantService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *ParticipantService {
	return &ParticipantService{
		api:   api,
		cache: cache,
		audit: audit,
		table: participantTable(),
		log:   log.With().Str("component", "participant_service").Logger(),
	}
}

var statusLabels = map[string]string{
	model.ApplicationStatusPending:    "Pending",
	model.ApplicationStatusAccepted:   "Accepted",
	model.ApplicationStatusRejected:   "Rejected",
	model.ApplicationStatusWaitlisted: "Waitlisted",
}

func participantTable() *table.Table[model.RegistrationScore] {
	return &table.Table[model.RegistrationScore]{
		ID: func(r model.RegistrationScore) string { return r.UserID },
		Columns: []table.Column[model.RegistrationScore]{
			{
				Key:    "firstName",
				Header: "Name",
				Get:    func(r model.RegistrationScore) any { return r.FirstName },
				Display: func(r model.RegistrationScore) string {
					return strings.TrimSpace(r.FirstName + " " + r.LastName)
				},
			},
			{
				Key:     "mu",
				Header:  "Score",
				Type:    table.TypeNumber,
				Get:     func(r model.RegistrationScore) any { return r.Mu },
				Display: func(r model.RegistrationScore) string { return strconv.FormatFloat(r.Mu, 'f', 2, 64) },
			},
			{
				Key:    "prioritized",
				Header: "Prioritized",
				Type:   table.TypeBool,
				Get:    func(r model.RegistrationScore) any { return r.Prioritized },
			},
			{
				Key:    "applicationStatus",
				Header: "Application Status",
				Get:    func(r model.RegistrationScore) any { return r.ApplicationStatus },
				Display: func(r model.RegistrationScore) string {
					if label, ok := statusLabels[strings.ToLower(r.ApplicationStatus)]; ok {
						return label
					}
					return r.ApplicationStatus
				},
			},
			{
				Key:    "travelCost",
				Header: "Travel Cost",
				Type:   table.TypeNumber,
				Get: func(r model.RegistrationScore) any {
					if r.TravelCost == nil {
						return nil
					}
					return *r.TravelCost
				},
				Display: func(r model.RegistrationScore) string {
					if r.TravelCost == nil {
						return "-"
					}
					return "$" + strconv.FormatFloat(*r.TravelCost, 'f', 2, 64)
				},
			},
		},
	}
}

// Scores returns the ranked pool, from cache when fresh.
func (s *ParticipantService) Scores(ctx context.Context, pool model.ScorePool) ([]model.RegistrationScore, querycache.Status, error) {
	key := querycache.NewKey(config.NamespaceRegistrations, "scores", string(pool))
	rows, st, err := querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]model.RegistrationScore, error) {
		return s.api.RegistrationScores(ctx, pool)
	})
	if err != nil {
		return nil, st, fmt.Errorf("load %s scores: %w", pool, err)
	}
	return rows, st, nil
}

// Review filters and ranks a pool, then pages it with q.
func (s *ParticipantService) Review(ctx context.Context, pool model.ScorePool, f ReviewFilter, q table.Query) (ReviewPage, querycache.Status, error) {
	rows, st, err := s.Scores(ctx, pool)
	if err != nil {
		return ReviewPage{}, st, err
	}
	f = f.withDefaults()
	page, err := s.table.Apply(RankApplicants(rows, f), q)
	if err != nil {
		return ReviewPage{}, st, err
	}
	years, experiences := Facets(rows)
	return ReviewPage{Page: page, Filter: f, AcademicYears: years, CodingExperiences: experiences}, st, nil
}

func (f ReviewFilter) withDefaults() ReviewFilter {
	if f.Status == "" {
		f.Status = model.ApplicationStatusPending
	}
	if f.Prioritized == "" {
		f.Prioritized = filterAll
	}
	return f
}

func active(v string) bool {
	return v != "" && v != filterAll
}

// RankApplicants applies f and orders the pool prioritized first, then by
// score descending. TopN, when positive, keeps only the first N.
func RankApplicants(rows []model.RegistrationScore, f ReviewFilter) []model.RegistrationScore {
	f = f.withDefaults()
	out := make([]model.RegistrationScore, 0, len(rows))
	for _, r := range rows {
		if active(f.Status) && r.ApplicationStatus != f.Status {
			continue
		}
		if (f.Prioritized == "yes" && !r.Prioritized) || (f.Prioritized == "no" && r.Prioritized) {
			continue
		}
		if active(f.AcademicYear) && r.AcademicYear != f.AcademicYear {
			continue
		}
		if active(f.CodingExperience) && r.CodingExperience != f.CodingExperience {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Prioritized != out[j].Prioritized {
			return out[i].Prioritized
		}
		return out[i].Mu > out[j].Mu
	})

	if f.TopN > 0 && f.TopN < len(out) {
		out = out[:f.TopN]
	}
	return out
}

// Facets returns the sorted distinct non-empty academic years and coding
// experience levels of a pool.
func Facets(rows []model.RegistrationScore) (years, experiences []string) {
	ys := make(map[string]struct{})
	es := make(map[string]struct{})
	for _, r := range rows {
		if r.AcademicYear != "" {
			ys[r.AcademicYear] = struct{}{}
		}
		if r.CodingExperience != "" {
			es[r.CodingExperience] = struct{}{}
		}
	}
	return sortedKeys(ys), sortedKeys(es)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UpdateStatus sets the review status of one registration.
func (s *ParticipantService) UpdateStatus(ctx context.Context, id int, status string) (model.Registration, error) {
	reg, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.Registration, error) {
		return s.api.UpdateApplicationStatus(ctx, id, status)
	}, querycache.NewKey(config.NamespaceRegistrations))
	if err != nil {
		return model.Registration{}, fmt.Errorf("update application status: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionStatus, "registration", strconv.Itoa(id))
	return reg, nil
}

// UpdateStatusBulk sets status for every selected applicant of pool. The
// selection is checked against the list f produces, the one the reviewer
// is looking at: it is refused unless every selected applicant is on that
// list and still pending.
func (s *ParticipantService) UpdateStatusBulk(ctx context.Context, pool model.ScorePool, f ReviewFilter, userIDs []string, status string) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows, _, err := s.Scores(ctx, pool)
	if err != nil {
		return err
	}
	statusOf := make(map[string]string, len(rows))
	for _, r := range RankApplicants(rows, f) {
		statusOf[r.UserID] = r.ApplicationStatus
	}
	for _, id := range userIDs {
		st, shown := statusOf[id]
		switch {
		case !shown:
			return fmt.Errorf("%w: applicant %s is not in the filtered list", response.ErrDomain, id)
		case st != model.ApplicationStatusPending:
			return fmt.Errorf("%w: applicant %s is not pending", response.ErrDomain, id)
		}
	}

	if _, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.UpdateApplicationStatusBulk(ctx, userIDs, status)
	}, querycache.NewKey(config.NamespaceRegistrations)); err != nil {
		return fmt.Errorf("bulk update application status: %w", err)
	}
	for _, id := range userIDs {
		s.audit.Record(ctx, model.AuditActionStatus, "user_registration", id)
	}
	return nil
}
