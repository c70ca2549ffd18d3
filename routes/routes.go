package routes

import (
	"net/http"

	"regiobon/admin"
	"regiobon/auth"
	"regiobon/cart"
	"regiobon/middleware"
	"regiobon/models"
	"regiobon/ratelim"
	"regiobon/reports"
	"regiobon/reviews"
	"regiobon/shops"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/reviewpic/*filepath", http.Dir("static/reviewpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(utils.Handle(auth.Register)))
	router.POST("/api/auth/login", rl.Limit(utils.Handle(auth.Login)))
	router.POST("/api/auth/refresh", rl.Limit(utils.Handle(auth.RefreshToken)))
}

func AddShopRoutes(router *httprouter.Router) {
	router.GET("/api/shops", utils.Handle(shops.GetShops))
	router.GET("/api/shops/:shopId", utils.Handle(shops.GetShop))
	router.GET("/api/shops/:shopId/voucher-qr", utils.Handle(shops.VoucherQR))
	router.POST("/api/shops", middleware.RequireRole(models.RoleOwner, utils.Handle(shops.CreateShop)))
	router.PUT("/api/shops/:shopId", middleware.RequireRole(models.RoleOwner, utils.Handle(shops.UpdateShop)))
	router.DELETE("/api/shops/:shopId", middleware.RequireRole(models.RoleOwner, utils.Handle(shops.DeleteShop)))

	router.GET("/api/shops/:shopId/items", utils.Handle(shops.GetItems))
	router.POST("/api/shops/:shopId/items", middleware.RequireRole(models.RoleOwner, utils.Handle(shops.CreateItem)))
	router.PUT("/api/shops/:shopId/items/:itemId", middleware.RequireRole(models.RoleOwner, utils.Handle(shops.UpdateItem)))
	router.DELETE("/api/shops/:shopId/items/:itemId", middleware.RequireRole(models.RoleOwner, utils.Handle(shops.DeleteItem)))
}

func AddReviewRoutes(router *httprouter.Router) {
	router.GET("/api/shops/:shopId/items/:itemId/reviews", utils.Handle(reviews.GetReviews))
	router.POST("/api/shops/:shopId/items/:itemId/reviews", middleware.Authenticate(utils.Handle(reviews.AddReview)))
	router.DELETE("/api/shops/:shopId/items/:itemId/reviews/:reviewId", middleware.Authenticate(utils.Handle(reviews.DeleteReview)))
}

func AddReportRoutes(router *httprouter.Router, h *reports.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/reports/review", rl.Limit(middleware.Authenticate(utils.Handle(h.SubmitReviewReport))))
	router.POST("/api/reports/shop", rl.Limit(middleware.Authenticate(utils.Handle(h.SubmitShopReport))))
	router.GET("/api/reports/my-reports", middleware.Authenticate(utils.Handle(h.MyReports)))
}

func AddCartRoutes(router *httprouter.Router) {
	router.POST("/api/cart", middleware.Authenticate(utils.Handle(cart.AddToCart)))
	router.GET("/api/cart", middleware.Authenticate(utils.Handle(cart.GetCart)))
	router.GET("/api/cart/route", middleware.Authenticate(utils.Handle(cart.GetRoute)))
	router.DELETE("/api/cart", middleware.Authenticate(utils.Handle(cart.ClearCart)))
	router.DELETE("/api/cart/:itemId", middleware.Authenticate(utils.Handle(cart.RemoveFromCart)))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handler) {
	adminOnly := func(fn utils.AppHandle) httprouter.Handle {
		return middleware.RequireRole(models.RoleAdmin, utils.Handle(fn))
	}

	router.GET("/api/admin/reports", adminOnly(h.GetPendingReports))
	router.GET("/api/admin/reports/reviews", adminOnly(h.GetPendingReviewReports))
	router.GET("/api/admin/reports/shops", adminOnly(h.GetPendingShopReports))
	router.POST("/api/admin/reports/:reportId/dismiss", adminOnly(h.DismissReport))

	router.POST("/api/admin/moderate/review/:reportId", adminOnly(h.ModerateReview))
	router.POST("/api/admin/moderate/shop/:reportId", adminOnly(h.ModerateShop))

	router.GET("/api/admin/users", adminOnly(h.GetUsersWithWarnings))
	router.DELETE("/api/admin/users/:userId", adminOnly(h.RemoveUser))
	router.POST("/api/admin/users/:userId/warn", adminOnly(h.WarnUser))
	router.POST("/api/admin/shops/:shopId/warn", adminOnly(h.WarnShop))

	router.GET("/api/admin/logs", adminOnly(h.GetModerationLogs))
	router.GET("/api/admin/logs/export", adminOnly(h.ExportModerationLogs))
}
