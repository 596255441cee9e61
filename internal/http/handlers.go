package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jsonapi/backend/internal/db"
)

type Server struct {
	R *gin.Engine
	// DB is the pending database handle; handlers must Wait on it before use.
	DB *db.Conn
}

// NewServer builds the router. conn may be nil; no route reads from it yet.
func NewServer(conn *db.Conn) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	s := &Server{R: r, DB: conn}

	r.GET("/", s.index)

	return s
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "this is json"})
}
