package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() {
	r := s.engine

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	persons := r.Group("/persons")
	{
		persons.POST("/register", s.emailGate(), s.register)
		persons.POST("/login", s.login)
	}

	protected := persons.Group("")
	protected.Use(s.authGate())
	{
		// both forms of the collection path, so neither is redirected
		protected.GET("", s.list)
		protected.GET("/", s.list)
		protected.GET("/:id", s.get)
		protected.PUT("/:id", s.update)
		protected.DELETE("/:id", s.delete)
		protected.DELETE("", s.deleteAll)
		protected.DELETE("/", s.deleteAll)
	}
}
