package sqlite

import (
	"github.com/openvault/notechat-mcp/internal/contextcache"
	"github.com/openvault/notechat-mcp/internal/domain/activity"
	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/domain/project"
)

// Each repository must satisfy the interface its consuming domain package
// declares. The domain packages depend on the repository sentinels only, so
// these assertions also keep internal/repository a leaf package.
var (
	_ project.Repository      = (*ProjectRepository)(nil)
	_ chat.Repository         = (*ChatRepository)(nil)
	_ chat.ProjectRepository  = (*ProjectRepository)(nil)
	_ activity.Repository     = (*ActivityRepository)(nil)
	_ contextcache.Repository = (*CacheRepository)(nil)
)
