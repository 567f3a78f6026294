package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetDriverLocation stores a driver's live coordinates in Redis
func SetDriverLocation(ctx context.Context, driverID uint, lat, lng float64) error {
	locationData := map[string]interface{}{
		"lat":     lat,
		"lng":     lng,
		"updated": time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("driver:location:%d", driverID)
	return RedisClient.Set(ctx, key, data, time.Hour).Err()
}

// GetDriverLocation retrieves a driver's live coordinates from Redis
func GetDriverLocation(ctx context.Context, driverID uint) (lat, lng float64, err error) {
	key := fmt.Sprintf("driver:location:%d", driverID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	var locationData map[string]interface{}
	if err := json.Unmarshal([]byte(data), &locationData); err != nil {
		return 0, 0, err
	}

	lat, _ = locationData["lat"].(float64)
	lng, _ = locationData["lng"].(float64)

	return lat, lng, nil
}

// SetBusLocation stores a bus's last reported position text and coordinates
func SetBusLocation(ctx context.Context, busID uint, location string, lat, lng float64) error {
	locationData := map[string]interface{}{
		"location": location,
		"lat":      lat,
		"lng":      lng,
		"updated":  time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("bus:location:%d", busID)
	return RedisClient.Set(ctx, key, data, time.Hour).Err()
}

// GetBusLocation retrieves a bus's last reported position from Redis
func GetBusLocation(ctx context.Context, busID uint) (location string, lat, lng float64, err error) {
	key := fmt.Sprintf("bus:location:%d", busID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return "", 0, 0, err
	}

	var locationData map[string]interface{}
	if err := json.Unmarshal([]byte(data), &locationData); err != nil {
		return "", 0, 0, err
	}

	location, _ = locationData["location"].(string)
	lat, _ = locationData["lat"].(float64)
	lng, _ = locationData["lng"].(float64)

	return location, lat, lng, nil
}

// PublishDriverLocation publishes a driver location update to Redis pub/sub
func PublishDriverLocation(ctx context.Context, driverID uint, lat, lng float64) error {
	locationData := map[string]interface{}{
		"driverId": driverID,
		"location": map[string]float64{
			"lat": lat,
			"lng": lng,
		},
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "driver:location:updates", data).Err()
}

// PublishBusLocation publishes a bus location update to Redis pub/sub
func PublishBusLocation(ctx context.Context, busID uint, location string, lat, lng float64) error {
	locationData := map[string]interface{}{
		"busId":    busID,
		"location": location,
		"lat":      lat,
		"lng":      lng,
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "bus:location:updates", data).Err()
}
