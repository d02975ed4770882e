package protocol

import (
	"net/http"
	"strconv"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/internal/util"
)

// Resolver maps a snapshot position to an image; implemented by
// [navigator.Navigator]
type Resolver interface {
	Resolve(index int) (*imgnav.Resource, error)
}

// Handler answers resource-fetch requests from a [Resolver]
type Handler struct {
	resolver Resolver
}

var _ http.Handler = (*Handler)(nil)

// NewHandler returns a Handler serving images from resolver
func NewHandler(resolver Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := util.GetLogger("Protocol")

	if r.Method != http.MethodGet {
		logger.Debug().Str("method", r.Method).Msg("Rejecting non-GET request")
		notFound(w)
		return
	}
	index, ok := ParseIndex(r.URL.RawQuery)
	if !ok {
		logger.Debug().Str("query", r.URL.RawQuery).Msg("Malformed query")
		notFound(w)
		return
	}
	res, err := h.resolver.Resolve(index)
	if err != nil {
		logger.Debug().Err(err).Int("index", index).Msg("Resource unavailable")
		notFound(w)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", res.ContentType)
	hdr.Set("Content-Length", strconv.Itoa(len(res.Data)))
	hdr.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		logger.Debug().Err(err).Str("path", res.Path).Msg("Client went away mid-write")
	}
}

// notFound writes the protocol's single failure response: 404, no body
func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(http.StatusNotFound)
}
