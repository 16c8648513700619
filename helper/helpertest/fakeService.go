package helpertest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/siherrmann/chunkcompare/helper"
)

// RecordedRequest is a request received by the FakeService
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

type fakeFailure struct {
	status int
	kind   string
	reason string
}

type fakeIndex struct {
	schema map[string]interface{}
	docs   map[string]map[string]interface{}
	order  []string
}

// FakeService is an in-process stand-in for the search service used in tests.
// It understands the inference, index, document and search endpoints this module
// calls. Semantic search is approximated by matching query words, scored per
// whole field for "none" sub-fields and per sentence for every other sub-field.
type FakeService struct {
	Server *httptest.Server

	mu            sync.Mutex
	requests      []RecordedRequest
	inference     map[string]json.RawMessage
	indices       map[string]*fakeIndex
	failures      map[string]fakeFailure
	failDocuments map[string]fakeFailure
}

// NewFakeService starts a FakeService. It is closed when the test finishes.
func NewFakeService(t interface {
	Cleanup(func())
}) *FakeService {
	f := &FakeService{
		inference:     map[string]json.RawMessage{},
		indices:       map[string]*fakeIndex{},
		failures:      map[string]fakeFailure{},
		failDocuments: map[string]fakeFailure{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// Configuration returns a service configuration pointing at the fake
func (f *FakeService) Configuration() *helper.ServiceConfiguration {
	return &helper.ServiceConfiguration{
		Host:            f.Server.URL,
		APIKey:          "fake-api-key",
		Index:           helper.DefaultIndexName,
		RequestTimeout:  5 * time.Second,
		ElserModelID:    helper.DefaultElserModelID,
		WikipediaAPIURL: helper.DefaultWikipediaAPIURL,
		LogLevel:        "debug",
	}
}

// NewTestService creates a Service connected to the fake, logging to out
func (f *FakeService) NewTestService(out io.Writer) (*helper.Service, error) {
	logger := slog.New(helper.NewPrettyHandler(out, helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
	}))
	return helper.NewService("test", f.Configuration(), logger)
}

// Fail makes every request with the given method and path fail
func (f *FakeService) Fail(method string, path string, status int, kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = fakeFailure{status: status, kind: kind, reason: "injected failure"}
}

// FailDocument makes writes of the document with the given field value fail
func (f *FakeService) FailDocument(value string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDocuments[value] = fakeFailure{status: status, kind: "document_parsing_exception", reason: "injected failure"}
}

// RegisterInference stores an inference configuration directly
func (f *FakeService) RegisterInference(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inference[id] = json.RawMessage(`{}`)
}

// HasInference reports whether the inference id is registered
func (f *FakeService) HasInference(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.inference[id]
	return ok
}

// HasIndex reports whether the index exists
func (f *FakeService) HasIndex(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.indices[name]
	return ok
}

// DocumentCount returns the number of documents in the index
func (f *FakeService) DocumentCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx, ok := f.indices[name]; ok {
		return len(idx.docs)
	}
	return 0
}

// Requests returns all received requests, optionally filtered by method and path suffix
func (f *FakeService) Requests(method string, pathSuffix string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []RecordedRequest
	for _, r := range f.requests {
		if method != "" && r.Method != method {
			continue
		}
		if pathSuffix != "" && !strings.HasSuffix(r.Path, pathSuffix) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *FakeService) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
	})

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	if failure, ok := f.failures[r.Method+" "+r.URL.Path]; ok {
		writeFakeError(w, failure.status, failure.kind, failure.reason)
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(segments) >= 2 && segments[0] == "_inference":
		f.handleInference(w, r.Method, segments[len(segments)-1], body)
	case len(segments) == 1 && segments[0] != "":
		f.handleIndex(w, r.Method, segments[0], body)
	case len(segments) >= 2 && segments[1] == "_doc":
		id := ""
		if len(segments) == 3 {
			id = segments[2]
		}
		f.handleDocument(w, segments[0], id, body)
	case len(segments) == 2 && segments[1] == "_refresh":
		if _, ok := f.indices[segments[0]]; !ok {
			writeFakeError(w, http.StatusNotFound, helper.ErrorTypeIndexNotFound, fmt.Sprintf("no such index [%s]", segments[0]))
			return
		}
		writeFakeJSON(w, http.StatusOK, map[string]interface{}{"_shards": map[string]int{"total": 1, "successful": 1, "failed": 0}})
	case len(segments) == 2 && segments[1] == "_search":
		f.handleSearch(w, segments[0], body)
	default:
		writeFakeError(w, http.StatusBadRequest, "illegal_argument_exception", "unsupported endpoint "+r.URL.Path)
	}
}

func (f *FakeService) handleInference(w http.ResponseWriter, method string, id string, body []byte) {
	switch method {
	case http.MethodGet:
		config, ok := f.inference[id]
		if !ok {
			writeFakeError(w, http.StatusNotFound, helper.ErrorTypeResourceNotFound, fmt.Sprintf("Inference endpoint not found [%s]", id))
			return
		}
		writeFakeJSON(w, http.StatusOK, map[string]interface{}{
			"endpoints": []interface{}{map[string]interface{}{"inference_id": id, "config": config}},
		})
	case http.MethodPut:
		if _, ok := f.inference[id]; ok {
			writeFakeError(w, http.StatusBadRequest, helper.ErrorTypeAlreadyExists, fmt.Sprintf("Inference endpoint [%s] already exists", id))
			return
		}
		if !json.Valid(body) {
			writeFakeError(w, http.StatusBadRequest, "parse_exception", "request body is required")
			return
		}
		f.inference[id] = json.RawMessage(body)
		writeFakeJSON(w, http.StatusOK, map[string]interface{}{"inference_id": id})
	default:
		writeFakeError(w, http.StatusMethodNotAllowed, "illegal_argument_exception", "unsupported method")
	}
}

func (f *FakeService) handleIndex(w http.ResponseWriter, method string, name string, body []byte) {
	_, exists := f.indices[name]

	switch method {
	case http.MethodHead:
		if exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case http.MethodDelete:
		if !exists {
			writeFakeError(w, http.StatusNotFound, helper.ErrorTypeIndexNotFound, fmt.Sprintf("no such index [%s]", name))
			return
		}
		delete(f.indices, name)
		writeFakeJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": true})
	case http.MethodPut:
		if exists {
			writeFakeError(w, http.StatusBadRequest, helper.ErrorTypeAlreadyExists, fmt.Sprintf("index [%s] already exists", name))
			return
		}
		var schema map[string]interface{}
		if err := json.Unmarshal(body, &schema); err != nil {
			writeFakeError(w, http.StatusBadRequest, "parse_exception", err.Error())
			return
		}
		for _, id := range referencedInferenceIDs(schema) {
			if _, ok := f.inference[id]; !ok {
				writeFakeError(w, http.StatusBadRequest, "illegal_argument_exception", fmt.Sprintf("inference endpoint [%s] does not exist", id))
				return
			}
		}
		f.indices[name] = &fakeIndex{schema: schema, docs: map[string]map[string]interface{}{}}
		writeFakeJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": true, "index": name})
	default:
		writeFakeError(w, http.StatusMethodNotAllowed, "illegal_argument_exception", "unsupported method")
	}
}

func (f *FakeService) handleDocument(w http.ResponseWriter, name string, id string, body []byte) {
	idx, ok := f.indices[name]
	if !ok {
		writeFakeError(w, http.StatusNotFound, helper.ErrorTypeIndexNotFound, fmt.Sprintf("no such index [%s]", name))
		return
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		writeFakeError(w, http.StatusBadRequest, "document_parsing_exception", err.Error())
		return
	}
	for _, v := range doc {
		if s, ok := v.(string); ok {
			if failure, ok := f.failDocuments[s]; ok {
				writeFakeError(w, failure.status, failure.kind, failure.reason)
				return
			}
		}
	}

	if id == "" {
		id = fmt.Sprintf("auto-%d", len(f.requests))
	}
	result := "updated"
	if _, exists := idx.docs[id]; !exists {
		result = "created"
		idx.order = append(idx.order, id)
	}
	idx.docs[id] = doc

	status := http.StatusOK
	if result == "created" {
		status = http.StatusCreated
	}
	writeFakeJSON(w, status, map[string]interface{}{"_index": name, "_id": id, "result": result})
}

type fakeSearchRequest struct {
	Source []string `json:"_source"`
	Size   *int     `json:"size"`
	Query  struct {
		Semantic *struct {
			Field string `json:"field"`
			Query string `json:"query"`
		} `json:"semantic"`
	} `json:"query"`
	Highlight *struct {
		Fields map[string]struct {
			NumberOfFragments int `json:"number_of_fragments"`
		} `json:"fields"`
	} `json:"highlight"`
}

type fakeHit struct {
	id        string
	score     float64
	fragments []string
	source    map[string]interface{}
}

func (f *FakeService) handleSearch(w http.ResponseWriter, name string, body []byte) {
	idx, ok := f.indices[name]
	if !ok {
		writeFakeError(w, http.StatusNotFound, helper.ErrorTypeIndexNotFound, fmt.Sprintf("no such index [%s]", name))
		return
	}

	var req fakeSearchRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Query.Semantic == nil {
		writeFakeError(w, http.StatusBadRequest, "parsing_exception", "expected a semantic query")
		return
	}

	field := req.Query.Semantic.Field
	base, sub, found := strings.Cut(field, ".")
	if !found || !idx.hasSemanticField(base, sub) {
		writeFakeError(w, http.StatusBadRequest, "illegal_argument_exception", fmt.Sprintf("field [%s] is not a semantic_text field", field))
		return
	}

	terms := fakeTerms(req.Query.Semantic.Query)
	var hits []fakeHit
	for _, id := range idx.order {
		doc := idx.docs[id]
		text, _ := doc[base].(string)
		score, fragment := fakeScore(text, sub, terms)
		if score <= 0 {
			continue
		}
		hit := fakeHit{id: id, score: score, source: map[string]interface{}{}}
		for _, key := range req.Source {
			hit.source[key] = doc[key]
		}
		if req.Highlight != nil {
			if hf, ok := req.Highlight.Fields[field]; ok && hf.NumberOfFragments > 0 {
				hit.fragments = []string{fragment}
			}
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	size := 10
	if req.Size != nil {
		size = *req.Size
	}
	if len(hits) > size {
		hits = hits[:size]
	}

	var maxScore interface{}
	outHits := make([]interface{}, 0, len(hits))
	for i, h := range hits {
		if i == 0 {
			maxScore = h.score
		}
		out := map[string]interface{}{
			"_index":  name,
			"_id":     h.id,
			"_score":  h.score,
			"_source": h.source,
		}
		if h.fragments != nil {
			out["highlight"] = map[string]interface{}{field: h.fragments}
		}
		outHits = append(outHits, out)
	}

	writeFakeJSON(w, http.StatusOK, map[string]interface{}{
		"took":      1,
		"timed_out": false,
		"hits": map[string]interface{}{
			"total":     map[string]interface{}{"value": len(outHits), "relation": "eq"},
			"max_score": maxScore,
			"hits":      outHits,
		},
	})
}

func (idx *fakeIndex) hasSemanticField(base string, sub string) bool {
	mappings, _ := idx.schema["mappings"].(map[string]interface{})
	properties, _ := mappings["properties"].(map[string]interface{})
	baseProperty, _ := properties[base].(map[string]interface{})
	fields, _ := baseProperty["fields"].(map[string]interface{})
	subProperty, _ := fields[sub].(map[string]interface{})
	return subProperty["type"] == "semantic_text"
}

func referencedInferenceIDs(schema map[string]interface{}) []string {
	var ids []string
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch node := v.(type) {
		case map[string]interface{}:
			if id, ok := node["inference_id"].(string); ok {
				ids = append(ids, id)
			}
			for _, child := range node {
				walk(child)
			}
		case []interface{}:
			for _, child := range node {
				walk(child)
			}
		}
	}
	walk(schema)
	return ids
}

func fakeTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if len(word) > 2 {
			terms = append(terms, word)
		}
	}
	return terms
}

// fakeScore returns the score of text for the terms and the best matching unit with
// matched terms wrapped in <em> tags
func fakeScore(text string, sub string, terms []string) (float64, string) {
	units := []string{text}
	if sub != "none" {
		units = strings.SplitAfter(text, ". ")
	}

	bestScore, bestUnit := 0.0, ""
	for _, unit := range units {
		words := strings.Fields(unit)
		if len(words) == 0 {
			continue
		}
		lower := strings.ToLower(unit)
		matches := 0
		for _, term := range terms {
			matches += strings.Count(lower, term)
		}
		score := float64(matches) * 10 / float64(len(words))
		if score > bestScore {
			bestScore, bestUnit = score, unit
		}
	}
	if bestScore == 0 {
		return 0, ""
	}
	return bestScore, emphasize(strings.TrimSpace(bestUnit), terms)
}

func emphasize(text string, terms []string) string {
	words := strings.Fields(text)
	for i, word := range words {
		lower := strings.ToLower(word)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				words[i] = "<em>" + word + "</em>"
				break
			}
		}
	}
	return strings.Join(words, " ")
}

func writeFakeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFakeError(w http.ResponseWriter, status int, kind string, reason string) {
	writeFakeJSON(w, status, map[string]interface{}{
		"status": status,
		"error": map[string]interface{}{
			"type":   kind,
			"reason": reason,
			"root_cause": []interface{}{
				map[string]interface{}{"type": kind, "reason": reason},
			},
		},
	})
}
