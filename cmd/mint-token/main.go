package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/logger"
	"github.com/hackpsu/admin-console/internal/service"
	"golang.org/x/term"
)

// mint-token signs a staff token for local development and for the
// CACHE_WARM_TOKEN service account. Production tokens come from the
// HackPSU identity provider.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Mint Staff Token ===")

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Secret
	secret := cfg.JWTSecret
	if secret == "" {
		fmt.Print("Enter JWT Secret: ")
		byteSecret, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Println("\nError reading secret")
			return
		}
		secret = string(byteSecret)
		fmt.Println() // Newline after secret input
	}
	if secret == "" {
		fmt.Println("Error: Secret is required")
		return
	}

	// TTL
	fmt.Print("Enter TTL in hours (default 12): ")
	ttlStr, _ := reader.ReadString('\n')
	ttlStr = strings.TrimSpace(ttlStr)
	hours := 12
	if ttlStr != "" {
		h, err := strconv.Atoi(ttlStr)
		if err != nil || h <= 0 {
			fmt.Println("Error: TTL must be a positive number")
			return
		}
		hours = h
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	token, err := service.NewAuthService(secret).IssueToken(email, time.Duration(hours)*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}

	fmt.Printf("\nToken for %s (valid %dh):\n%s\n", email, hours, token)
}
