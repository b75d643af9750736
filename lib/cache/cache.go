package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Provider is a read-through cache for query results grouped by workspace.
// Readers take a Generation before querying and pass it to Set, a Set racing a later Invalidate is dropped.
type Provider interface {
	Get(key string) (interface{}, bool)
	Generation(spaceID string) uint64
	Set(spaceID string, generation uint64, key string, value interface{}) bool
	Invalidate(spaceID string)
}

var Instance Provider

func NewHandler(ttl time.Duration) {
	Instance = NewInstance(ttl)
}

type impl struct {
	cache       *gocache.Cache
	ttl         time.Duration
	mu          *sync.Mutex
	generations map[string]uint64
}

func NewInstance(ttl time.Duration) Provider {
	return &impl{
		cache:       gocache.New(ttl, 2*ttl),
		ttl:         ttl,
		mu:          &sync.Mutex{},
		generations: map[string]uint64{},
	}
}

// SpacePrefix is the key prefix of every entry cached for a workspace
func SpacePrefix(spaceID string) string {
	return "ws:" + spaceID + ":"
}

func (i *impl) Get(key string) (interface{}, bool) {
	return i.cache.Get(key)
}

func (i *impl) Generation(spaceID string) uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.generations[spaceID]
}

func (i *impl) Set(spaceID string, generation uint64, key string, value interface{}) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.generations[spaceID] != generation {
		return false
	}
	i.cache.Set(key, value, i.ttl)
	return true
}

func (i *impl) Invalidate(spaceID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.generations[spaceID]++
	prefix := SpacePrefix(spaceID)
	for key := range i.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			i.cache.Delete(key)
		}
	}
}

// Key joins a workspace resource and its query parameters in a stable order
func Key(spaceID, resource string, params map[string]interface{}) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString(SpacePrefix(spaceID))
	sb.WriteString(resource)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("|%s=%v", name, params[name]))
	}
	return sb.String()
}
