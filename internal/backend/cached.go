package backend

import (
	"context"
	"fmt"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/cache"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/models"
)

// CachedClient layers a read cache over the backend client for the lookups
// the editor repeats constantly (job posting, candidate roster). Writes and
// question set reads always go straight to the backend.
type CachedClient struct {
	*Client
	caches *cache.CacheManager
}

// NewCachedClient wraps a client with the given cache manager.
func NewCachedClient(client *Client, caches *cache.CacheManager) *CachedClient {
	return &CachedClient{Client: client, caches: caches}
}

// GetJob fetches a job posting, cache-aside.
func (c *CachedClient) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	key := fmt.Sprintf("id:%s", jobID)
	err := c.caches.Job.CacheOrExecute(ctx, key, &job, cache.JobCacheConfig.TTL, func() (interface{}, error) {
		return c.Client.GetJob(ctx, jobID)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetApplicants fetches the candidate roster for a job, cache-aside.
func (c *CachedClient) GetApplicants(ctx context.Context, jobID string) ([]*models.Applicant, error) {
	var applicants []*models.Applicant
	key := fmt.Sprintf("job:%s", jobID)
	err := c.caches.Roster.CacheOrExecute(ctx, key, &applicants, cache.RosterCacheConfig.TTL, func() (interface{}, error) {
		return c.Client.GetApplicants(ctx, jobID)
	})
	if err != nil {
		return nil, err
	}
	return applicants, nil
}

// ApplyToAll rolls out a question set and invalidates the affected job's
// cached roster.
func (c *CachedClient) ApplyToAll(ctx context.Context, req *models.ApplyToAllRequest) (*models.ApplyToAllResult, error) {
	result, err := c.Client.ApplyToAll(ctx, req)
	if err != nil {
		return nil, err
	}
	cache.InvalidateJob(ctx, c.caches, req.JobID)
	return result, nil
}
