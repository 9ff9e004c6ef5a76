package connection

import (
	"os"

	fundcontroller "reddrop/controller/fund"
	requestcontroller "reddrop/controller/request"
	usercontroller "reddrop/controller/user"
	"reddrop/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func StartServer() {
	router := gin.Default()

	store, authClient, err := FBConnection()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firebase clients")
	}

	users := services.NewUserService(store)
	requests := services.NewRequestService(store)
	funds := services.NewFundService(store)
	checkout := services.NewStripeCheckout(os.Getenv("STRIPE_SECRET"), os.Getenv("SITE_DOMAIN"))

	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	usercontroller.UserController(router, authClient, users)
	requestcontroller.RequestController(router, authClient, users, requests)
	fundcontroller.FundController(router, authClient, funds, checkout)

	log.Info().Msg("server starting")
	if err := router.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
