package routes

import (
	"net/http"
	"os"

	"veloura/addresses"
	"veloura/admin"
	"veloura/auth"
	"veloura/cart"
	"veloura/checkout"
	"veloura/contact"
	"veloura/middleware"
	"veloura/orders"
	"veloura/payments"
	"veloura/products"
	"veloura/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
	router.ServeFiles("/static/productpic-thumb/*filepath", http.Dir("static/productpic/thumb"))
}

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetProducts)
	router.GET("/api/products/:productid", products.GetProduct)

	adminOnly := middleware.Chain(middleware.Authenticate, middleware.RequireRoles("admin"))
	router.POST("/api/products", adminOnly(products.CreateProduct))
	router.PUT("/api/products/:productid", adminOnly(products.UpdateProduct))
	router.POST("/api/products/:productid/image", adminOnly(products.UploadProductImage))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart/add", middleware.Authenticate(cart.AddToCart))
	router.POST("/api/cart/remove", middleware.Authenticate(cart.RemoveFromCart))
	router.POST("/api/cart/quantity", middleware.Authenticate(cart.UpdateQuantity))
	router.POST("/api/cart/move-to-wishlist", middleware.Authenticate(cart.MoveToWishlist))
	router.POST("/api/cart/clear", middleware.Authenticate(cart.ClearCart))
}

func AddWishlistRoutes(router *httprouter.Router) {
	router.GET("/api/wishlist", middleware.Authenticate(cart.GetWishlist))
	router.POST("/api/wishlist/add", middleware.Authenticate(cart.AddToWishlist))
	router.POST("/api/wishlist/remove", middleware.Authenticate(cart.RemoveFromWishlist))
	router.POST("/api/wishlist/move-to-cart", middleware.Authenticate(cart.MoveToCart))
}

func AddCheckoutRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	store := checkout.NewMongoStore()
	verifier := payments.NewClient(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
	orchestrator := checkout.NewOrchestrator(store, verifier, checkout.ConfigFromEnv())
	handler := checkout.NewHandler(checkout.NewSessionStore(), orchestrator, store)

	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	router.POST("/api/checkout/start", authed(handler.Start))
	router.GET("/api/checkout", authed(handler.Get))
	router.POST("/api/checkout/address", authed(handler.SelectAddress))
	router.POST("/api/checkout/next", authed(handler.Next))
	router.POST("/api/checkout/back", authed(handler.Back))
	router.GET("/api/checkout/upi-qr", authed(handler.UPIQR))
	router.POST("/api/checkout/place-order", authed(handler.PlaceOrder))
}

func AddPaymentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	gw := payments.NewClient(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
	handler := payments.NewHandler(gw)

	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	router.POST("/api/create-order", authed(handler.CreateOrder))
	router.POST("/api/verify-payment", authed(handler.VerifyPayment))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.GET("/api/orders", middleware.Authenticate(orders.MyOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/:orderid/invoice", middleware.Authenticate(orders.PrintInvoice))
	router.GET("/ws/orders/:orderid", orders.TrackOrder)
}

func AddAddressRoutes(router *httprouter.Router) {
	router.GET("/api/addresses", middleware.Authenticate(addresses.ListAddresses))
	router.POST("/api/addresses", middleware.Authenticate(addresses.SaveAddress))
	router.PUT("/api/addresses/:addressid", middleware.Authenticate(addresses.UpdateAddress))
	router.DELETE("/api/addresses/:addressid", middleware.Authenticate(addresses.DeleteAddress))
	router.GET("/api/pincode/:code", addresses.LookupPincode)
}

func AddAdminRoutes(router *httprouter.Router) {
	adminOnly := middleware.Chain(middleware.Authenticate, middleware.RequireRoles("admin"))
	router.GET("/api/admin/orders", adminOnly(admin.ListOrders))
	router.PUT("/api/admin/orders/:orderid", adminOnly(admin.UpdateOrder))
}

func AddContactRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/contact", rateLimiter.Limit(contact.SubmitQuery))
}
