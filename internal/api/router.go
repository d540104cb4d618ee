package api

import (
	"github.com/acckaguya/TrafficSign-System/internal/api/handler"
	"github.com/acckaguya/TrafficSign-System/internal/api/middleware"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	as *service.AuthService,
	ds *service.DriverService,
	ts *service.TripService,
	ss *service.SignService,
	authMw *middleware.AuthMiddleware,
	streamHandler *handler.StreamHandler,
) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// WebSocket endpoint (không cần auth cho real-time connection)
	r.GET("/ws", streamHandler.HandleStream)

	authHandler := handler.NewAuthHandler(as, ds)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		driverH := handler.NewDriverHandler(ds)
		userRoutes := v1.Group("/user")
		{
			userRoutes.GET("/:user_id", driverH.GetProfile)
			userRoutes.POST("/update", driverH.UpdateProfile)
		}

		vehicleH := handler.NewVehicleHandler(ds)
		vehicleRoutes := v1.Group("/vehicle")
		{
			vehicleRoutes.POST("/add", vehicleH.AddVehicle)
			vehicleRoutes.POST("/delete", vehicleH.DeleteVehicle)
		}

		tripH := handler.NewTripHandler(ts)
		tripRoutes := v1.Group("/trip")
		{
			tripRoutes.POST("/submit", tripH.SubmitTrip)
		}

		signH := handler.NewSignHandler(ss)
		signRoutes := v1.Group("/signs")
		{
			signRoutes.GET("", signH.GetAllSigns)
			signRoutes.GET("/:class_id", signH.GetSignByClassID)
			signRoutes.PUT("/:class_id", authMw.AuthorizeRole("admin"), signH.UpsertSign)
		}
	}
	return r
}
