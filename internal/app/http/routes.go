package routes

import (
	"newsletter-app/config"
	"newsletter-app/database"
	aiwriterapi "newsletter-app/internal/api/aiwriter"
	billingapi "newsletter-app/internal/api/billing"
	newslettersapi "newsletter-app/internal/api/newsletters"
	stripewebhooks "newsletter-app/internal/api/stripewebhook"
	"newsletter-app/internal/app/http/middleware"
	"newsletter-app/internal/domain/access"
	billingdomain "newsletter-app/internal/domain/billing"
	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/domain/users"
	"newsletter-app/internal/notify"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, machine *subscriptions.Machine, notifier notify.Dispatcher) {
	db := database.DB

	userStore := users.NewGormStore(db)
	subStore := subscriptions.NewGormStore(db)
	paymentStore := billingdomain.NewGormPaymentStore(db)
	eventLog := billingdomain.NewGormEventLog(db)

	gate := access.NewGate(userStore, subStore)

	webhookHandler := stripewebhooks.New(config.STRIPE_WEBHOOK_SECRET, machine, notifier, eventLog, paymentStore)
	billingHandler := billingapi.NewHandler(userStore, subStore, machine, paymentStore, notifier)
	newsletterHandler := newslettersapi.NewHandler(db, gate)
	statsHandler := newslettersapi.NewStatsHandler(newsletterHandler, subStore)

	r.POST("/webhook", webhookHandler.HandleWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/newsletters", newsletterHandler.ListNewsletters)
	r.GET("/newsletters/:id", newsletterHandler.GetNewsletter)
	r.GET("/check-access/:id", newsletterHandler.CheckAccess)
	r.GET("/user-stats/:user_id", statsHandler.GetUserContentStats)

	r.GET("/subscription-status/:user_id", billingHandler.GetSubscriptionStatus)
	r.GET("/payments/:user_id", billingHandler.GetPaymentHistory)

	// ✅ Sanitize JSON string fields on public write routes
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/newsletters", newsletterHandler.CreateNewsletter)
	public.PUT("/newsletters/:id", newsletterHandler.UpdateNewsletter)
	public.DELETE("/newsletters/:id", newsletterHandler.DeleteNewsletter)
	public.PUT("/newsletters/:id/visibility", newsletterHandler.SetVisibility)

	public.POST("/create-checkout-session", billingHandler.CreateCheckoutSession)
	public.POST("/upgrade-to-premium", billingHandler.UpgradeToPremium)

	public.POST("/generate-newsletter", aiwriterapi.GenerateNewsletter)
	public.POST("/generate-ideas", aiwriterapi.GenerateIdeas)
}
