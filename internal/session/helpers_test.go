package session

import (
	"io"
	"log/slog"

	"github.com/couchcryptid/brewmap/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testFields = []string{
	"id", "name", "brewery_type", "address_1", "city", "state", "postal_code",
	"country", "latitude", "longitude", "phone", "website_url",
	"source_state", "source_state_code",
}

// scenarioTable is the three-record dataset: one renderable micro in MN, one
// nano in WI with a bad latitude, and an uncategorized record in ON.
func scenarioTable() domain.Table {
	return domain.Table{
		Fields: testFields,
		Rows: []domain.RawRow{
			{"id": "1", "name": "Minnow Brewing", "brewery_type": "micro", "country": "US", "state": "MN", "latitude": 45.0, "longitude": -93.0},
			{"id": "2", "name": "Nanobrew", "brewery_type": "nano", "country": "US", "state": "WI", "latitude": "bad", "longitude": -89.4},
			{"id": "3", "name": "Café du Nord", "brewery_type": "", "country": "CA", "state": "ON", "latitude": 43.6, "longitude": -79.4},
		},
	}
}

func scenarioDataset() *domain.Dataset {
	return domain.NewDataset(scenarioTable())
}

type stubProvider struct {
	ds   *domain.Dataset
	err  error
	done chan struct{}
}

func newStubProvider(ds *domain.Dataset, err error) *stubProvider {
	done := make(chan struct{})
	close(done)
	return &stubProvider{ds: ds, err: err, done: done}
}

func (p *stubProvider) Done() <-chan struct{} { return p.done }

func (p *stubProvider) Dataset() (*domain.Dataset, error) { return p.ds, p.err }

func activeIDs(s State) []string {
	out := make([]string, len(s.Active))
	for i, b := range s.Active {
		out[i] = b.ID
	}
	return out
}
