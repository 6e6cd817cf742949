package deps

import (
	"time"

	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/pipeline"
	"github.com/hydrokr/stationd/internal/readings"
	"github.com/hydrokr/stationd/internal/search"
)

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time   // for testing, defaults to time.Now
	AllowedHosts     []string           // Host headers allowed to access the server
	AllowedCIDRS     []string           // IPs allowed to access healthz/readyz endpoints
	TrustProxy       bool               // true if running behind a trusted reverse proxy
	Matcher          *search.Matcher    // station resolution over the in-memory catalog
	Pipeline         *pipeline.Pipeline // query -> stations -> readings -> answer
	Readings         *readings.Cache    // TTL read-through cache over the upstream API
	CatalogFile      string             // path the station catalog was loaded from
	APIKeyConfigured bool               // false => every reading is flagged demo data
	MaxCandidates    int                // stations fetched live per query
}
