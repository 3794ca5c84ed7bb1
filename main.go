package main

import (
	"context"
	"os"
	"time"

	"newsletter-app/config"
	"newsletter-app/database"
	routes "newsletter-app/internal/app/http"
	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/domain/users"
	"newsletter-app/internal/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	userStore := users.NewGormStore(database.DB)
	subStore := subscriptions.NewGormStore(database.DB)
	machine := subscriptions.NewMachine(subStore)

	sender := notify.EmailSender(func(userID uint) (string, string, error) {
		user, err := userStore.FindByID(context.Background(), userID)
		if err != nil {
			return "", "", err
		}
		return user.Email, user.Username, nil
	})
	notifier := notify.NewAsyncDispatcher(sender, 128)
	defer notifier.Close()

	// Periodic downgrade of lapsed subscriptions.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go subscriptions.RunExpirySweeper(sweepCtx, machine, config.EXPIRY_SWEEP_INTERVAL, func(sub subscriptions.Subscription) {
		notifier.Notify(notify.KindPaymentFailed, sub.UserID, nil)
	})

	r := gin.Default()

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, machine, notifier)

	r.Run(":" + config.PORT)
}
