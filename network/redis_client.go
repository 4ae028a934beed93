package network

import (
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v7"
)

// RedisClient caches metadata resolution results so rebuilding a
// collection does not refetch every metadata JSON through the public
// gateways. Entries are keyed by creator address, one hash field per
// asset.
type RedisClient struct {
	client *redis.Client
}

// resolvedMedia is what we remember about one asset's metadata fetch.
// MediaURL keeps the directory path so cached entries classify the
// same way fresh resolutions do.
type resolvedMedia struct {
	MetadataCID string `json:"metadata_cid"`
	MediaURL    string `json:"media_url"`
}

func NewRedisClient(address, password string, db int) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *RedisClient) Ping() (string, error) {
	return c.client.Ping().Result()
}

// CachedMediaURL returns the cached media URL for an asset, if the
// cached entry was resolved from the same metadata CID. A changed
// metadata CID invalidates the entry.
func (c *RedisClient) CachedMediaURL(creatorAddress, assetID, metadataCID string) (string, bool) {
	field := fmt.Sprintf("asset:%s", assetID)
	data, err := c.client.HGet(c.key(creatorAddress), field).Result()
	if err != nil {
		return "", false
	}
	cached := &resolvedMedia{}
	if err = json.Unmarshal([]byte(data), cached); err != nil {
		return "", false
	}
	if cached.MetadataCID != metadataCID {
		return "", false
	}
	return cached.MediaURL, true
}

func (c *RedisClient) SaveMediaURL(creatorAddress, assetID, metadataCID, mediaURL string) error {
	field := fmt.Sprintf("asset:%s", assetID)
	jsonData, err := json.Marshal(&resolvedMedia{
		MetadataCID: metadataCID,
		MediaURL:    mediaURL,
	})
	if err != nil {
		return err
	}
	_, err = c.client.HSet(c.key(creatorAddress), field, string(jsonData)).Result()
	return err
}

// DeleteCollectionCache drops every cached resolution for a creator.
func (c *RedisClient) DeleteCollectionCache(creatorAddress string) error {
	_, err := c.client.Del(c.key(creatorAddress)).Result()
	return err
}

func (c *RedisClient) key(creatorAddress string) string {
	return fmt.Sprintf("resolve:%s", creatorAddress)
}
