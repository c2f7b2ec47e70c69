package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/pawhaven/pawhaven-backend/internal/handlers"
	"github.com/pawhaven/pawhaven-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/login", handlers.Login)
	r.Post("/api/auth/logout", handlers.Logout)
	r.Get("/api/auth/me", handlers.Me)
	r.Put("/api/auth/profile", handlers.UpdateProfile)
	r.Put("/api/auth/password", handlers.ChangePassword)

	// Pet routes
	r.Post("/api/pet", handlers.CreatePet)
	r.Get("/api/pet/mine", handlers.MyPets)
	r.Get("/api/pet/{id}", handlers.GetPet)
	r.Put("/api/pet/{id}", handlers.UpdatePet)
	r.Delete("/api/pet/{id}", handlers.DeletePet)
	r.Post("/api/pet/{id}/photos", handlers.AddPetPhoto)
	r.Delete("/api/pet/{id}/photos", handlers.RemovePetPhoto)

	// Adoption listing routes
	r.Post("/api/adoption", handlers.CreateAdoptionPost)
	r.Get("/api/adoption/available", handlers.GetAvailablePets)
	r.Get("/api/adoption/mine", handlers.MyAdoptionPosts)
	r.Get("/api/adoption/{id}", handlers.GetAdoptionPost)
	r.Put("/api/adoption/{id}", handlers.UpdateAdoptionPost)
	r.Delete("/api/adoption/{id}", handlers.DeleteAdoptionPost)

	// Likes and comments live on listings; writes carry a burst limiter
	r.With(middleware.WriteLimit).Post("/api/adoption/{id}/like", handlers.ToggleLike)
	r.Get("/api/adoption/{id}/like", handlers.LikeStatus)
	r.With(middleware.WriteLimit).Post("/api/adoption/{id}/comments", handlers.CreateComment)
	r.Get("/api/adoption/{id}/comments", handlers.GetComments)

	// Adoption request lifecycle
	r.With(middleware.WriteLimit).Post("/api/adoption/{id}/request", handlers.RequestAdoption)
	r.Get("/api/adoption/{id}/requests", handlers.ViewRequests)
	r.Get("/api/adoption/requests/mine", handlers.MyRequests)
	r.Put("/api/adoption/requests/{id}/meeting", handlers.ScheduleMeeting)
	r.Put("/api/adoption/requests/{id}/confirm", handlers.ConfirmAdoption)
	r.Delete("/api/adoption/requests/{id}", handlers.RejectRequest)

	// Favorites routes
	r.Post("/api/favorites/{id}", handlers.AddFavorite)
	r.Delete("/api/favorites/{id}", handlers.RemoveFavorite)
	r.Get("/api/favorites", handlers.MyFavorites)
	r.Get("/api/favorites/{id}/count", handlers.FavoriteCount)
	r.Get("/api/favorites/{id}/status", handlers.FavoriteStatus)

	// Notification routes
	r.Get("/api/notifications", handlers.ListNotifications)
	r.Put("/api/notifications/{id}/read", handlers.MarkNotificationRead)

	// Care service routes
	r.Get("/api/care/services", handlers.ListCareServices)
	r.Post("/api/care/services", handlers.CreateCareService)
	r.Post("/api/care/services/seed", handlers.SeedCareServices)
	r.Get("/api/care/services/{id}", handlers.GetCareService)
	r.Post("/api/care/appointments", handlers.BookAppointment)
	r.Get("/api/care/appointments", handlers.MyAppointments)
	r.Put("/api/care/appointments/{id}", handlers.UpdateAppointmentStatus)

	// Booking routes
	r.Post("/api/bookings", handlers.CreateBooking)
	r.Get("/api/bookings", handlers.ListBookings)

	// Shop routes (PostgreSQL catalog, Redis cart)
	r.Get("/api/shop/products", handlers.ListProducts)
	r.Post("/api/shop/products", handlers.AddProduct)
	r.Post("/api/shop/products/seed", handlers.SeedProducts)
	r.Get("/api/shop/products/{id}", handlers.GetProduct)
	r.Get("/api/shop/cart", handlers.GetCart)
	r.Post("/api/shop/cart", handlers.AddToCart)
	r.Put("/api/shop/cart", handlers.UpdateCartItem)
	r.Delete("/api/shop/cart", handlers.ClearCart)
	r.Post("/api/shop/checkout", handlers.Checkout)
	r.Post("/api/shop/orders/{id}/success", handlers.PaymentSuccess)
	r.Post("/api/shop/orders/{id}/failure", handlers.PaymentFailure)
	r.Get("/api/shop/orders", handlers.PurchaseHistory)

	// File upload routes
	r.Post("/api/upload", handlers.UploadFile)

	// WebSocket endpoint for realtime notifications
	r.Get("/ws/notifications", handlers.NotificationsWebSocket)
}
