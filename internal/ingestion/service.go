package ingestion

import (
	"github.com/gin-gonic/gin"

	"github.com/beacon-lab/project-beacon/internal/core/storage"
	"github.com/beacon-lab/project-beacon/internal/profile"
	"github.com/beacon-lab/project-beacon/internal/tracking"
)

type Service struct {
	resolver         *profile.Resolver
	recorder         *tracking.Recorder
	profiles         storage.ProfileStore
	events           storage.EventStore
	maxBodySizeBytes int
}

func NewService(resolver *profile.Resolver, recorder *tracking.Recorder, profiles storage.ProfileStore, events storage.EventStore, maxBodySizeMB int) *Service {
	if resolver == nil {
		panic("ingestion: resolver must not be nil")
	}
	if recorder == nil {
		panic("ingestion: recorder must not be nil")
	}
	if profiles == nil || events == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		resolver:         resolver,
		recorder:         recorder,
		profiles:         profiles,
		events:           events,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/identify", s.IdentifyHandler)
	r.POST("/track", s.TrackHandler)

	// Paths used by the first SDK release.
	r.POST("/api/v0/identify", s.IdentifyHandler)
	r.POST("/api/v0/track", s.TrackHandler)

	r.GET("/v1/profiles/:id", s.GetProfileHandler)
	r.GET("/v1/events/:id", s.GetEventHandler)
}
