package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/filedrop/gateway/docs/swagger"
)

// undocumented routes are served but not part of the API document.
var undocumented = map[string]bool{
	"/health":    true,
	"/swagger/*": true,
}

func TestSwaggerDoc_MatchesRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(swagger.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	var documented []string
	for path, ops := range doc.Paths {
		for method := range ops {
			documented = append(documented, strings.ToUpper(method)+" "+path)
		}
	}

	env := newTestEnv(t)
	router, ok := env.srv.Config.Handler.(chi.Routes)
	require.True(t, ok)

	var routed []string
	err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		if !undocumented[route] {
			routed = append(routed, method+" "+route)
		}
		return nil
	})
	require.NoError(t, err)

	sort.Strings(documented)
	sort.Strings(routed)
	assert.Equal(t, routed, documented)
}
