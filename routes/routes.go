package routes

import (
	"net/http"

	"digishop/auth"
	"digishop/middleware"
	"digishop/orders"
	"digishop/products"
	"digishop/ratelim"
	"digishop/uploads"
	"digishop/users"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/users", ratelim.RateLimit(auth.Register))
	router.POST("/api/users/login", ratelim.RateLimit(auth.Login))
	// OptionalAuth so a stale or already-invalidated token can still
	// clear its cookie.
	router.POST("/api/users/logout", middleware.OptionalAuth(auth.LogoutUser))
}

func AddUserRoutes(router *httprouter.Router) {
	router.GET("/api/users", middleware.Authenticate(users.GetUsers))
	// "profile" shares the wildcard slot; users.GetUserByID dispatches it
	router.GET("/api/users/:id", middleware.Authenticate(users.GetUserByID))
	router.PUT("/api/users/:id", middleware.Authenticate(users.UpdateUser))
	router.DELETE("/api/users/:id", middleware.Authenticate(users.DeleteUser))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetProducts)
	// "top" shares the wildcard slot; products.GetProduct dispatches it
	router.GET("/api/products/:id", products.GetProduct)
	router.POST("/api/products", middleware.Authenticate(products.CreateProduct))
	router.PUT("/api/products/:id", middleware.Authenticate(products.UpdateProduct))
	router.DELETE("/api/products/:id", middleware.Authenticate(products.DeleteProduct))
	router.POST("/api/products/:id/reviews", ratelim.RateLimit(middleware.Authenticate(products.AddProductReview)))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders", ratelim.RateLimit(middleware.Authenticate(orders.CreateOrder)))
	router.GET("/api/orders", middleware.Authenticate(orders.GetOrders))
	router.GET("/api/orders/myorders", middleware.Authenticate(orders.GetMyOrders))
	router.PUT("/api/orders/:id/cancel", middleware.Authenticate(orders.CancelOrder))
	router.GET("/api/order/:id", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/order/:id/invoice", middleware.Authenticate(orders.PrintInvoice))
	router.PUT("/api/order/:id/pay", middleware.Authenticate(orders.PayOrder))
	router.PUT("/api/order/:id/deliver", middleware.Authenticate(orders.DeliverOrder))
}

func AddUploadRoutes(router *httprouter.Router) {
	router.POST("/api/upload", ratelim.RateLimit(middleware.Authenticate(uploads.UploadImage)))
}
