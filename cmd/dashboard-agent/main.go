// Command dashboard-agent keeps a terminal dashboard in sync with the
// portal. It logs in as a guide or programmer and polls the API the same
// way the web dashboard does: pending requests for guides, notifications
// and sessions for programmers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/poller"
	"github.com/aegisworks/aegis-api/pkg/config"
	"github.com/aegisworks/aegis-api/pkg/logger"
)

func main() {
	var (
		portalURL = flag.String("portal", "http://localhost:8080", "portal base URL")
		email     = flag.String("email", "", "account email")
		password  = flag.String("password", "", "account password")
		role      = flag.String("role", "programmer", "account role: programmer or guide")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	userRole := models.UserRole(*role)
	if userRole != models.RoleProgrammer && userRole != models.RoleGuide {
		log.Fatalf("unsupported role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := poller.NewClient(*portalURL, cfg.Polling.RequestTimeout)
	login, err := client.Login(ctx, *email, *password, userRole)
	if err != nil {
		logr.Fatal("login failed", zap.Error(err))
	}
	logr.Info("logged in", zap.String("user_id", login.User.ID), zap.String("role", string(userRole)))

	switch userRole {
	case models.RoleGuide:
		p := poller.NewGuidePoller(client, login.User.ID, cfg.Polling.RequestInterval, func(pending []models.SessionRequest) {
			fmt.Printf("\n%d pending session request(s)\n", len(pending))
			for _, req := range pending {
				fmt.Printf("  [%s] %s <%s>\n", req.ID, req.ProgrammerName, req.ProgrammerEmail)
			}
		}, logr)
		p.Start(ctx)
		defer p.Stop()
	case models.RoleProgrammer:
		p := poller.NewProgrammerPoller(client, login.User.ID, cfg.Polling.NotificationInterval, cfg.Polling.SessionInterval,
			func(notifications []models.Notification) {
				unread := 0
				for _, n := range notifications {
					if !n.IsRead {
						unread++
					}
				}
				fmt.Printf("\n%d notification(s), %d unread\n", len(notifications), unread)
			},
			func(sessions []models.Session) {
				fmt.Printf("\n%d scheduled session(s)\n", len(sessions))
				for _, s := range sessions {
					fmt.Printf("  %s with %s (%s)\n", s.Title, s.GuideName, s.MeetingLink)
				}
			}, logr)
		p.Start(ctx)
		defer p.Stop()
	}

	<-ctx.Done()
	logr.Info("dashboard agent stopping")
}
