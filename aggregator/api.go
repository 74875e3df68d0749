package aggregator

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
)

// HTTPConfig represents the config of the chart API
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// ChartData is the series layout the bar chart consumes: parallel
// arrays indexed by minute, timestamps serialized in the target zone
type ChartData struct {
	Timestamps []string `json:"timestamps"`
	Correct    []int    `json:"correct"`
	Incorrect  []int    `json:"incorrect"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

// API serves the merged series to the chart frontend
type API struct {
	store  *SeriesStore
	logger *zap.SugaredLogger
}

// Router returns the route set of the chart API
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", a.healthHandler).Methods("GET")
	r.HandleFunc("/v1/chart/data", a.chartDataHandler).Methods("GET")

	return r
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (a *API) chartDataHandler(w http.ResponseWriter, r *http.Request) {
	series, updatedAt := a.store.Snapshot()

	data := ChartData{
		Timestamps: make([]string, 0, len(series)),
		Correct:    make([]int, 0, len(series)),
		Incorrect:  make([]int, 0, len(series)),
	}
	for _, p := range series {
		data.Timestamps = append(data.Timestamps, p.Minute.Format(time.RFC3339))
		data.Correct = append(data.Correct, p.Counts.Correct)
		data.Incorrect = append(data.Incorrect, p.Counts.Incorrect)
	}
	if !updatedAt.IsZero() {
		data.UpdatedAt = updatedAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Errorf("API: %s", err)
	}
}

// NewAPI creates a new API
func NewAPI(store *SeriesStore, logger *zap.SugaredLogger) *API {
	return &API{
		store:  store,
		logger: logger,
	}
}
