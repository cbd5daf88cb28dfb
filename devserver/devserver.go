// Package devserver is an in-memory stand-in for the DeepLink backend. It
// implements the documented REST contract plus the chat websocket channel,
// backed by seeded fixtures instead of a database. It exists for tests and
// for demoing the SDK offline; it is not a production server.
package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/config"
	"github.com/deeplink-app/deeplink-go/utils"
)

// Server holds the fixture data and serves the API. All state is guarded by
// one mutex; the dataset is small by construction.
type Server struct {
	cfg      config.AppConfig
	log      *zap.Logger
	upgrader websocket.Upgrader

	data *fixtures
}

// New builds a server with freshly seeded fixtures.
func New(cfg config.AppConfig, log *zap.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: utils.NopIfNil(log),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		data: seed(),
	}
}

// Router wires all routes. Gin mode follows configuration so tests can run
// quietly in test mode.
func (s *Server) Router() *gin.Engine {
	switch strings.ToLower(s.cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := s.authRequired()
	optional := s.authOptional()

	r.POST("/api/auth/login/", s.login)
	r.POST("/api/auth/register/", s.register)
	r.GET("/api/auth/me/", auth, s.me)

	r.GET("/api/posts", optional, s.listPosts)
	r.POST("/api/posts", auth, s.createPost)
	r.GET("/api/posts/:id", optional, s.getPost)
	r.POST("/api/posts/:id/like", auth, s.likePost)
	r.DELETE("/api/posts/:id/like", auth, s.unlikePost)
	r.GET("/api/posts/:id/comments", optional, s.listComments)
	r.POST("/api/posts/:id/comments", auth, s.createComment)
	r.DELETE("/api/posts/:id/comments/:commentId", auth, s.deleteComment)
	r.POST("/api/comments/:id/like", auth, s.likeComment)

	r.GET("/api/communities", optional, s.listCommunities)
	r.POST("/api/communities", auth, s.createCommunity)
	r.GET("/api/communities/:id", optional, s.getCommunity)
	r.GET("/api/communities/:id/posts", optional, s.listCommunityPosts)
	r.POST("/api/communities/:id/join", auth, s.joinCommunity)
	r.DELETE("/api/communities/:id/join", auth, s.leaveCommunity)

	r.GET("/api/notifications/", auth, s.listNotifications)
	r.PATCH("/api/notifications/:id/", auth, s.markNotificationRead)
	r.POST("/api/notifications/mark-all-read/", auth, s.markAllNotificationsRead)

	r.GET("/api/chat/rooms/", auth, s.listRooms)
	r.POST("/api/chat/rooms/", auth, s.createRoom)
	r.GET("/api/chat/rooms/:id/", auth, s.getRoom)
	r.GET("/api/chat/rooms/:id/messages/", auth, s.listMessages)

	r.GET("/ws/chat/:room/", s.chatSocket)

	return r
}

// Run serves until the listener fails or a termination signal arrives;
// in-flight requests are drained before it returns.
func (s *Server) Run() error {
	addr := ":" + s.cfg.DevServerPort
	s.log.Info("dev server listening", zap.String("addr", addr))
	return utils.NewGraceServer(addr, s.Router()).ListenAndServe()
}

type tokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(userID int64, username string) (string, error) {
	claims := tokenClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.DevJWTSecret))
}

func (s *Server) parseToken(tokenStr string) (*tokenClaims, bool) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.DevJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	return claims, ok
}

func bearerToken(ctx *gin.Context) string {
	h := ctx.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// Websocket clients can't always set headers.
	return ctx.Query("token")
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := s.parseToken(bearerToken(ctx))
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			return
		}
		ctx.Set("userID", claims.UserID)
		ctx.Set("username", claims.Username)
		ctx.Next()
	}
}

func (s *Server) authOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, ok := s.parseToken(bearerToken(ctx)); ok {
			ctx.Set("userID", claims.UserID)
			ctx.Set("username", claims.Username)
		}
		ctx.Next()
	}
}

func currentUser(ctx *gin.Context) (int64, string) {
	id, _ := ctx.Get("userID")
	name, _ := ctx.Get("username")
	uid, _ := id.(int64)
	username, _ := name.(string)
	return uid, username
}
