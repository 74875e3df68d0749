package aggregator

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
)

const fetchAttempts = 2

// STHConfig represents the config of the Fetcher
type STHConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	EntityType  string `yaml:"entity_type"`
	Attribute   string `yaml:"attribute"`
	Service     string `yaml:"service"`
	ServicePath string `yaml:"service_path"`
	LastN       int    `yaml:"last_n"`
	Timeout     int    `yaml:"timeout"` // seconds
}

// Fetcher polls the STH short-term-history API for the most recent
// values of a single attribute
type Fetcher struct {
	config STHConfig
	client *http.Client
	url    string
	logger *zap.SugaredLogger
}

type sthResponse struct {
	ContextResponses []struct {
		ContextElement struct {
			Attributes []struct {
				Values []json.RawMessage `json:"values"`
			} `json:"attributes"`
		} `json:"contextElement"`
	} `json:"contextResponses"`
}

// Fetch requests the last N attribute values. Any transport error,
// non-200 status or undecodable body yields an empty batch; the next
// tick re-attempts naturally.
func (f *Fetcher) Fetch() []RawEvent {
	var body []byte

	err := retry.Do(
		func() error {
			var err error
			body, err = f.get()

			return err
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		f.logger.Warnf("Fetcher: %s", err)

		return nil
	}

	events, err := decodeSTHBody(body)
	if err != nil {
		f.logger.Warnf("Fetcher: %s", err)

		return nil
	}

	return events
}

func (f *Fetcher) get() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("Fetcher: %v", err)
	}

	req.Header.Set("fiware-service", f.config.Service)
	req.Header.Set("fiware-servicepath", f.config.ServicePath)

	q := req.URL.Query()
	q.Set("lastN", strconv.Itoa(f.config.LastN))
	req.URL.RawQuery = q.Encode()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Fetcher: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Fetcher: unexpected status %d from %s", resp.StatusCode, f.url)
	}

	return ioutil.ReadAll(resp.Body)
}

// Decode the nested STH response down to the value entries
func decodeSTHBody(body []byte) ([]RawEvent, error) {
	var decoded sthResponse

	err := json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, fmt.Errorf("Fetcher: %v", err)
	}

	if len(decoded.ContextResponses) == 0 || len(decoded.ContextResponses[0].ContextElement.Attributes) == 0 {
		return nil, fmt.Errorf("Fetcher: response contains no attribute values")
	}

	values := decoded.ContextResponses[0].ContextElement.Attributes[0].Values
	events := make([]RawEvent, 0, len(values))
	for _, raw := range values {
		event, ok := decodeValueEntry(raw)
		if !ok {
			continue
		}

		events = append(events, event)
	}

	return events, nil
}

// Decode a single value entry. STH emits either objects, with the key
// names varying between versions, or [value, recvTime] pairs; entries
// missing either field are skipped.
func decodeValueEntry(raw json.RawMessage) (RawEvent, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		value := firstValue(obj, "attrValue", "value")
		recv := firstString(obj, "recvTime", "recvtime", "time")
		if value == nil || recv == "" {
			return RawEvent{}, false
		}

		return RawEvent{Value: fmt.Sprintf("%v", value), RecvTime: recv}, true
	}

	var pair []interface{}
	if err := json.Unmarshal(raw, &pair); err == nil && len(pair) >= 2 {
		recv, ok := pair[1].(string)
		if !ok || pair[0] == nil {
			return RawEvent{}, false
		}

		return RawEvent{Value: fmt.Sprintf("%v", pair[0]), RecvTime: recv}, true
	}

	return RawEvent{}, false
}

func firstValue(obj map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}

	return nil
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}

	return ""
}

// NewFetcher creates a new Fetcher
func NewFetcher(config STHConfig, logger *zap.SugaredLogger) *Fetcher {
	if config.LastN <= 0 {
		config.LastN = 100
	}
	if config.Timeout <= 0 {
		config.Timeout = 10
	}

	url := fmt.Sprintf(
		"http://%s:%d/STH/v1/contextEntities/type/%s/attributes/%s",
		config.Host, config.Port, config.EntityType, config.Attribute,
	)

	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
		url:    url,
		logger: logger,
	}
}
