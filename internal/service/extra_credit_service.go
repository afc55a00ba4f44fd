package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/rs/zerolog"
)

// ClassCount is an extra credit class with the number of hackers who
// claimed it.
type ClassCount struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Hackers int    `json:"hackers"`
}

// ExtraCreditService backs the extra credit classes and assignments screens.
type ExtraCreditService struct {
	Classes     *Screen[ClassCount]
	Assignments *Screen[ClassCount]
	api         *apiclient.Client
	cache       *querycache.Cache
	audit       AuditRecorder
	log         zerolog.Logger
}

func NewExtraCreditService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *ExtraCreditService {
	s := &ExtraCreditService{
		api:   api,
		cache: cache,
		audit: audit,
		log:   log.With().Str("component", "extra_credit_service").Logger(),
	}
	s.Classes = newScreen("extra-credit-classes", querycache.NewKey(config.NamespaceExtraCredit, "classes"), classCountTable("Class Name"), cache, s.loadClasses)
	s.Assignments = newScreen("extra-credit-assignments", querycache.NewKey(config.NamespaceExtraCredit, "assignments"), classCountTable("Class"), cache, s.loadAssignments)
	return s
}

func classCountTable(nameHeader string) *table.Table[ClassCount] {
	return &table.Table[ClassCount]{
		ID: func(c ClassCount) string { return strconv.Itoa(c.ID) },
		Columns: []table.Column[ClassCount]{
			{Key: "name", Header: nameHeader, Get: func(c ClassCount) any { return c.Name }},
			{Key: "hackers", Header: "Hackers", Type: table.TypeNumber, Get: func(c ClassCount) any { return c.Hackers }},
		},
	}
}

func (s *ExtraCreditService) loadClasses(ctx context.Context) ([]ClassCount, error) {
	classes, err := s.api.ListExtraCreditClasses(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.api.ListExtraCreditAssignments(ctx)
	if err != nil {
		return nil, err
	}
	return CountClassHackers(classes, assignments), nil
}

func (s *ExtraCreditService) loadAssignments(ctx context.Context) ([]ClassCount, error) {
	assignments, err := s.api.ListExtraCreditAssignments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClassCount, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, ClassCount{ID: a.ID, Name: a.Name, Hackers: len(a.Users)})
	}
	return out, nil
}

// CountClassHackers pairs every class with the assignment of the same id.
// Classes nobody claimed count zero.
func CountClassHackers(classes []model.ExtraCreditClass, assignments []model.ExtraCreditAssignment) []ClassCount {
	users := make(map[int]int, len(assignments))
	for _, a := range assignments {
		if _, seen := users[a.ID]; !seen {
			users[a.ID] = len(a.Users)
		}
	}
	out := make([]ClassCount, 0, len(classes))
	for _, c := range classes {
		out = append(out, ClassCount{ID: c.ID, Name: c.Name, Hackers: users[c.ID]})
	}
	return out
}

func extraCreditKey() querycache.Key {
	return querycache.NewKey(config.NamespaceExtraCredit)
}

// CreateClass adds a class.
func (s *ExtraCreditService) CreateClass(ctx context.Context, req model.CreateExtraCreditClassRequest) (model.ExtraCreditClass, error) {
	class, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.ExtraCreditClass, error) {
		return s.api.CreateExtraCreditClass(ctx, req)
	}, extraCreditKey())
	if err != nil {
		return model.ExtraCreditClass{}, fmt.Errorf("create class: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionCreate, "extra_credit_class", strconv.Itoa(class.ID))
	return class, nil
}

// RenameClass updates a class name.
func (s *ExtraCreditService) RenameClass(ctx context.Context, id int, req model.UpdateExtraCreditClassRequest) (model.ExtraCreditClass, error) {
	class, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.ExtraCreditClass, error) {
		return s.api.UpdateExtraCreditClass(ctx, id, req)
	}, extraCreditKey())
	if err != nil {
		return model.ExtraCreditClass{}, fmt.Errorf("rename class: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionUpdate, "extra_credit_class", strconv.Itoa(id))
	return class, nil
}

// DeleteClasses removes every selected class.
func (s *ExtraCreditService) DeleteClasses(ctx context.Context, ids []string) (int, error) {
	return bulkDelete(ctx, s.cache, s.audit, "extra_credit_class", ids, func(ctx context.Context, id string) error {
		n, err := parseID(id)
		if err != nil {
			return err
		}
		return s.api.DeleteExtraCreditClass(ctx, n)
	}, extraCreditKey())
}
