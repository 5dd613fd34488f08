/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// User stored by UsersService
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UsersResponse users api response
type UsersResponse struct {
	Data        []User `json:"data"`
	Total       int    `json:"total"`
	ExecuteTime string `json:"execute_time"`
}

// ReceivedRequest request recorded by UsersService
type ReceivedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// UsersService in-memory users api, target for create user attacks in tests and local runs
type UsersService struct {
	mu         sync.Mutex
	users      map[int64]User
	nextID     int64
	received   []ReceivedRequest
	sleep      time.Duration
	failStatus int
	srv        *http.Server
	L          *Logger
}

func NewUsersService(sleep time.Duration, l *Logger) *UsersService {
	if l == nil {
		l = NewNopLogger()
	}
	return &UsersService{
		users: make(map[int64]User),
		sleep: sleep,
		L:     l,
	}
}

// RunUsersService serves users api on addr
func RunUsersService(addr string, sleep time.Duration, l *Logger) *UsersService {
	s := NewUsersService(sleep, l)
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.L.Errorf("users service: %v", err)
		}
	}()
	s.L.Infof("users service listening on %s", addr)
	return s
}

func (s *UsersService) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// SetFailStatus makes every request fail with status, 0 disables
func (s *UsersService) SetFailStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Received returns copy of all recorded requests
func (s *UsersService) Received() []ReceivedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]ReceivedRequest, len(s.received))
	copy(res, s.received)
	return res
}

// Users returns stored users count
func (s *UsersService) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *UsersService) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.record)
	r.GET("/users", s.listUsers)
	r.POST("/users", s.createUser)
	r.GET("/users/:id", s.getUser)
	r.PUT("/users/:id", s.updateUser)
	r.DELETE("/users/:id", s.deleteUser)
	return r
}

// record stores request and applies artificial latency and failures
func (s *UsersService) record(c *gin.Context) {
	start := time.Now()
	body, _ := c.GetRawData()
	c.Set(gin.BodyBytesKey, body)
	s.mu.Lock()
	s.received = append(s.received, ReceivedRequest{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		ContentType: c.ContentType(),
		Body:        body,
	})
	failStatus := s.failStatus
	s.mu.Unlock()
	if s.sleep > 0 {
		time.Sleep(s.sleep)
	}
	if failStatus != 0 {
		c.AbortWithStatusJSON(failStatus, gin.H{"error": http.StatusText(failStatus)})
	} else {
		c.Next()
	}
	s.L.Debugf("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

func (s *UsersService) listUsers(c *gin.Context) {
	start := time.Now()
	s.mu.Lock()
	users := make([]User, 0, len(s.users))
	for id := int64(1); id <= s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, UsersResponse{
		Data:        users,
		Total:       len(users),
		ExecuteTime: time.Since(start).String(),
	})
}

func (s *UsersService) createUser(c *gin.Context) {
	start := time.Now()
	var u User
	if err := c.ShouldBindBodyWith(&u, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	s.mu.Lock()
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = u
	s.mu.Unlock()
	c.JSON(http.StatusOK, UsersResponse{
		Data:        []User{u},
		Total:       1,
		ExecuteTime: time.Since(start).String(),
	})
}

func (s *UsersService) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	s.mu.Lock()
	u, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *UsersService) updateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	var u User
	if err := c.ShouldBindBodyWith(&u, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	u.ID = id
	s.users[id] = u
	c.Status(http.StatusNoContent)
}

func (s *UsersService) deleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}
