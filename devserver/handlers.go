package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/deeplink-app/deeplink-go/models"
	"github.com/deeplink-app/deeplink-go/utils"
)

func (s *Server) login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	s.data.mu.Lock()
	user := s.data.usersByEmail[strings.ToLower(req.Email)]
	s.data.mu.Unlock()
	if user == nil || !utils.CheckPassword(user.passwordHash, req.Password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid credentials"})
		return
	}

	token, err := s.issueToken(user.id, user.username)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue token"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user.account()})
}

func (s *Server) register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=1"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to hash password"})
		return
	}

	email := strings.ToLower(req.Email)
	s.data.mu.Lock()
	if s.data.usersByEmail[email] != nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusConflict, gin.H{"detail": "email already registered"})
		return
	}
	user := &devUser{
		id:           s.data.nextUserID,
		username:     req.Username,
		email:        email,
		passwordHash: hash,
	}
	s.data.nextUserID++
	s.data.users[user.id] = user
	s.data.usersByEmail[email] = user
	s.data.mu.Unlock()

	token, err := s.issueToken(user.id, user.username)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue token"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"token": token, "user": user.account()})
}

func (s *Server) me(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	user := s.data.users[uid]
	s.data.mu.Unlock()
	if user == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "user not found"})
		return
	}
	ctx.JSON(http.StatusOK, user.account())
}

func (s *Server) listPosts(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	out := make([]models.Post, 0, len(s.data.posts))
	for _, dp := range s.data.posts {
		out = append(out, s.data.renderPost(dp, uid))
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) getPost(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	dp := s.data.findPost(ctx.Param("id"))
	if dp == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	out := s.data.renderPost(dp, uid)
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) createPost(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,min=1"`
		Content     string `json:"content" binding:"required"`
		CommunityID string `json:"communityId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	uid, _ := currentUser(ctx)
	now := time.Now().UTC()

	s.data.mu.Lock()
	dc := s.data.findCommunity(req.CommunityID)
	if dc == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "community not found"})
		return
	}
	dp := &devPost{
		post: models.Post{
			ID:        uuid.NewString(),
			Title:     utils.Sanitize(strings.TrimSpace(req.Title)),
			Content:   utils.Sanitize(req.Content),
			Author:    s.data.users[uid].author(),
			Community: models.CommunityRef{ID: dc.community.ID, Name: dc.community.Name},
			CreatedAt: now,
			UpdatedAt: now,
		},
		likedBy: make(map[int64]bool),
	}
	s.data.posts = append([]*devPost{dp}, s.data.posts...)
	out := s.data.renderPost(dp, uid)
	s.data.mu.Unlock()
	ctx.JSON(http.StatusCreated, out)
}

func (s *Server) likePost(ctx *gin.Context)   { s.setPostLike(ctx, true) }
func (s *Server) unlikePost(ctx *gin.Context) { s.setPostLike(ctx, false) }

func (s *Server) setPostLike(ctx *gin.Context, liked bool) {
	uid, username := currentUser(ctx)
	s.data.mu.Lock()
	dp := s.data.findPost(ctx.Param("id"))
	if dp == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	if liked {
		if !dp.likedBy[uid] {
			dp.likedBy[uid] = true
			if author := s.data.users[authorID(s.data, dp)]; author != nil && author.id != uid {
				sender := s.data.users[uid].ref()
				s.data.pushNotification(author.id, models.Notification{
					Type:       models.NotificationPostRating,
					Message:    username + " liked your post",
					Sender:     &sender,
					TargetType: "post",
				})
			}
		}
	} else {
		delete(dp.likedBy, uid)
	}
	likes := dp.post.Likes + len(dp.likedBy)
	id := dp.post.ID
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, models.LikeResult{ID: id, Likes: likes})
}

// authorID resolves a post's author back to a numeric user id. Callers hold f.mu.
func authorID(f *fixtures, dp *devPost) int64 {
	for _, u := range f.users {
		if u.username == dp.post.Author.Username {
			return u.id
		}
	}
	return 0
}

func (s *Server) listComments(ctx *gin.Context) {
	s.data.mu.Lock()
	dp := s.data.findPost(ctx.Param("id"))
	if dp == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	out := append([]models.Comment(nil), s.data.comments[dp.post.ID]...)
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) createComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	uid, username := currentUser(ctx)
	now := time.Now().UTC()

	s.data.mu.Lock()
	dp := s.data.findPost(ctx.Param("id"))
	if dp == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	comment := models.Comment{
		ID:        uuid.NewString(),
		Content:   utils.Sanitize(req.Content),
		Author:    s.data.users[uid].author(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.data.comments[dp.post.ID] = append([]models.Comment{comment}, s.data.comments[dp.post.ID]...)
	if author := s.data.users[authorID(s.data, dp)]; author != nil && author.id != uid {
		sender := s.data.users[uid].ref()
		s.data.pushNotification(author.id, models.Notification{
			Type:       models.NotificationPostComment,
			Message:    username + " commented on your post",
			Sender:     &sender,
			TargetType: "post",
		})
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusCreated, comment)
}

func (s *Server) deleteComment(ctx *gin.Context) {
	commentID := ctx.Param("commentId")
	s.data.mu.Lock()
	dp := s.data.findPost(ctx.Param("id"))
	if dp == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	list := s.data.comments[dp.post.ID]
	kept := list[:0]
	for _, c := range list {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	s.data.comments[dp.post.ID] = kept
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, gin.H{"id": commentID})
}

func (s *Server) likeComment(ctx *gin.Context) {
	commentID := ctx.Param("id")
	s.data.mu.Lock()
	for postID, list := range s.data.comments {
		for i := range list {
			if list[i].ID == commentID {
				list[i].Likes++
				out := models.LikeResult{ID: commentID, Likes: list[i].Likes}
				s.data.comments[postID] = list
				s.data.mu.Unlock()
				ctx.JSON(http.StatusOK, out)
				return
			}
		}
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusNotFound, gin.H{"detail": "comment not found"})
}

func (s *Server) listCommunities(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	out := make([]models.Community, 0, len(s.data.communities))
	for _, dc := range s.data.communities {
		out = append(out, s.data.renderCommunity(dc, uid))
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) getCommunity(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	dc := s.data.findCommunity(ctx.Param("id"))
	if dc == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "community not found"})
		return
	}
	out := s.data.renderCommunity(dc, uid)
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) listCommunityPosts(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	communityID := ctx.Param("id")
	s.data.mu.Lock()
	out := make([]models.Post, 0)
	for _, dp := range s.data.posts {
		if dp.post.Community.ID == communityID {
			out = append(out, s.data.renderPost(dp, uid))
		}
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) createCommunity(ctx *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required,min=1"`
		Description string   `json:"description" binding:"required"`
		Tags        []string `json:"tags"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	uid, _ := currentUser(ctx)
	now := time.Now().UTC()

	s.data.mu.Lock()
	dc := &devCommunity{
		community: models.Community{
			ID:          uuid.NewString(),
			Name:        utils.Sanitize(strings.TrimSpace(req.Name)),
			Description: utils.Sanitize(req.Description),
			Tags:        req.Tags,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		members: map[int64]bool{uid: true}, // creator joins implicitly
	}
	s.data.communities = append([]*devCommunity{dc}, s.data.communities...)
	out := s.data.renderCommunity(dc, uid)
	s.data.mu.Unlock()
	ctx.JSON(http.StatusCreated, out)
}

func (s *Server) joinCommunity(ctx *gin.Context)  { s.setMembership(ctx, true) }
func (s *Server) leaveCommunity(ctx *gin.Context) { s.setMembership(ctx, false) }

func (s *Server) setMembership(ctx *gin.Context, joined bool) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	dc := s.data.findCommunity(ctx.Param("id"))
	if dc == nil {
		s.data.mu.Unlock()
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "community not found"})
		return
	}
	if joined {
		dc.members[uid] = true
	} else {
		delete(dc.members, uid)
	}
	out := models.JoinResult{
		ID:           dc.community.ID,
		MembersCount: dc.community.MembersCount + len(dc.members),
		IsJoined:     joined,
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) listNotifications(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	out := append([]models.Notification(nil), s.data.notifications[uid]...)
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) markNotificationRead(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid notification id"})
		return
	}
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	list := s.data.notifications[uid]
	for i := range list {
		if list[i].ID == id {
			list[i].IsRead = true
			out := list[i]
			s.data.mu.Unlock()
			ctx.JSON(http.StatusOK, out)
			return
		}
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusNotFound, gin.H{"detail": "notification not found"})
}

func (s *Server) markAllNotificationsRead(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	list := s.data.notifications[uid]
	for i := range list {
		list[i].IsRead = true
	}
	s.data.mu.Unlock()
	ctx.Status(http.StatusOK)
}

func (s *Server) listRooms(ctx *gin.Context) {
	uid, _ := currentUser(ctx)
	s.data.mu.Lock()
	out := make([]models.ChatRoom, 0)
	for _, r := range s.data.rooms {
		for _, p := range r.Participants {
			if p.ID == uid {
				out = append(out, *r)
				break
			}
		}
	}
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) getRoom(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid room id"})
		return
	}
	s.data.mu.Lock()
	room := s.data.findRoom(id)
	s.data.mu.Unlock()
	if room == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "room not found"})
		return
	}
	ctx.JSON(http.StatusOK, *room)
}

func (s *Server) listMessages(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid room id"})
		return
	}
	s.data.mu.Lock()
	out := append([]models.Message(nil), s.data.messages[id]...)
	s.data.mu.Unlock()
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) createRoom(ctx *gin.Context) {
	var req struct {
		Name         string          `json:"name"`
		Participants []int64         `json:"participants" binding:"required,min=1"`
		RoomType     models.RoomType `json:"room_type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}
	if req.RoomType != models.RoomDirect && req.RoomType != models.RoomGroup {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid room type"})
		return
	}

	uid, _ := currentUser(ctx)
	now := time.Now().UTC()

	s.data.mu.Lock()
	participants := []models.UserRef{s.data.users[uid].ref()}
	for _, pid := range req.Participants {
		if pid == uid {
			continue
		}
		u := s.data.users[pid]
		if u == nil {
			s.data.mu.Unlock()
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": "unknown participant"})
			return
		}
		participants = append(participants, u.ref())
	}
	room := &models.ChatRoom{
		ID:           s.data.nextRoom,
		Name:         req.Name,
		RoomType:     req.RoomType,
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.data.nextRoom++
	s.data.rooms = append([]*models.ChatRoom{room}, s.data.rooms...)
	out := *room
	s.data.mu.Unlock()
	ctx.JSON(http.StatusCreated, out)
}
