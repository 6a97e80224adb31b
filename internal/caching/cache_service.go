package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"billingpanel/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Organization caching
	GetOrganization(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)
	SetOrganization(ctx context.Context, org *models.Organization, ttl time.Duration) error
	DeleteOrganization(ctx context.Context, orgID uuid.UUID) error

	// Subscription caching
	GetSubscription(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error)
	SetSubscription(ctx context.Context, subscription *models.Subscription, ttl time.Duration) error
	DeleteSubscription(ctx context.Context, subscriptionID uuid.UUID) error

	// Plan catalog caching
	GetPlans(ctx context.Context) ([]*models.Plan, error)
	SetPlans(ctx context.Context, plans []*models.Plan, ttl time.Duration) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v", pingErr)
	}
	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetOrganization(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	key := fmt.Sprintf("billingpanel:organization:%s", orgID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var org models.Organization
	if err := json.Unmarshal(data, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *redisCacheService) SetOrganization(ctx context.Context, org *models.Organization, ttl time.Duration) error {
	key := fmt.Sprintf("billingpanel:organization:%s", org.ID.String())
	data, err := json.Marshal(org)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteOrganization(ctx context.Context, orgID uuid.UUID) error {
	key := fmt.Sprintf("billingpanel:organization:%s", orgID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetSubscription(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error) {
	key := fmt.Sprintf("billingpanel:subscription:%s", subscriptionID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var subscription models.Subscription
	if err := json.Unmarshal(data, &subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *redisCacheService) SetSubscription(ctx context.Context, subscription *models.Subscription, ttl time.Duration) error {
	key := fmt.Sprintf("billingpanel:subscription:%s", subscription.ID.String())
	data, err := json.Marshal(subscription)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteSubscription(ctx context.Context, subscriptionID uuid.UUID) error {
	key := fmt.Sprintf("billingpanel:subscription:%s", subscriptionID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetPlans(ctx context.Context) ([]*models.Plan, error) {
	data, err := r.client.Get(ctx, "billingpanel:plans").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var plans []*models.Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *redisCacheService) SetPlans(ctx context.Context, plans []*models.Plan, ttl time.Duration) error {
	data, err := json.Marshal(plans)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "billingpanel:plans", data, ttl).Err()
}
