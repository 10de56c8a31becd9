//go:build ignore

// Standalone probe for the bot's external dependencies. Run with:
//
//	go run health_check.go
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meetpanchal/ipo-gmp-bot/config"
	"github.com/meetpanchal/ipo-gmp-bot/services"
	"github.com/meetpanchal/ipo-gmp-bot/shared"
	"github.com/meetpanchal/ipo-gmp-bot/storage"
)

func main() {
	fmt.Printf("🏥 IPO GMP Bot Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 50))

	healthScore := 0
	totalTests := 3

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("⚙️  Configuration: ❌ FAILED (%v)\n", err)
		fmt.Println("Cannot continue without configuration")
		return
	}
	fmt.Println("⚙️  Configuration: ✅ OK")

	// Test 1: source page fetch
	fmt.Printf("📡 Source page (%s): ", cfg.Source.Provider)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.Timeout)
	limiter := shared.NewRequestRateLimiter(0)
	var provider services.PageProvider
	if cfg.Source.Provider == "colly" {
		provider = services.NewCollyPageProvider(cfg.Source.URL, cfg.Source.Timeout, limiter)
	} else {
		provider = services.NewChromedpPageProvider(cfg.Source.URL, cfg.Source.Timeout, limiter)
	}
	if grid, err := provider.FetchTable(ctx); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Printf("✅ OK (%d rows)\n", len(grid))
		healthScore++
	}
	cancel()

	// Test 2: Telegram credentials
	fmt.Print("📨 Telegram: ")
	if !cfg.Telegram.Enabled {
		fmt.Println("⚪ DISABLED (digests go to the log)")
		healthScore++
	} else if _, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 1, time.Second); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Println("✅ OK")
		healthScore++
	}

	// Test 3: state file
	fmt.Print("🗄️  State file: ")
	store := storage.NewStateStore(cfg.State.FilePath)
	if fingerprint, err := store.LoadFingerprint(); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else if fingerprint == "" {
		fmt.Println("✅ OK (no prior digest)")
		healthScore++
	} else {
		fmt.Printf("✅ OK (last fingerprint %s...)\n", fingerprint[:12])
		healthScore++
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("🎯 Health Score: %d/%d\n", healthScore, totalTests)
	if healthScore == totalTests {
		fmt.Println("✅ All systems operational")
	} else {
		fmt.Println("⚠️  Some checks failed, see above")
	}
}
