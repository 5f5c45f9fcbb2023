package store

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// incidentNamespace scopes the name-based incident IDs.
var incidentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Prastabm/SafeLanes-Research/incidents"))

// incidentKeys derives a stable ID for each incident from its content and the
// number of identical incidents before it, so reloading the same table is a
// no-op while genuine duplicate reports are all kept.
func incidentKeys(incs []model.Incident) []string {
	seen := make(map[string]int, len(incs))
	keys := make([]string, len(incs))
	for i, inc := range incs {
		content := inc.Datetime.Format("2006-01-02T15:04:05") +
			"|" + strconv.FormatFloat(inc.Latitude, 'g', -1, 64) +
			"|" + strconv.FormatFloat(inc.Longitude, 'g', -1, 64) +
			"|" + string(inc.City) +
			"|" + string(inc.Category) +
			"|" + inc.Description
		n := seen[content]
		seen[content] = n + 1
		keys[i] = uuid.NewSHA1(incidentNamespace, []byte(content+"#"+strconv.Itoa(n))).String()
	}
	return keys
}
