package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// GenerateCall is a request received by a FakeSeq2Seq server.
type GenerateCall struct {
	ID         string `json:"id"`
	ModelDir   string `json:"model_dir"`
	Checkpoint string `json:"checkpoint"`
	Inputs     string `json:"inputs"`
	SrcLang    string `json:"src_lang"`
	TgtLang    string `json:"tgt_lang"`
	Parameters struct {
		ForcedBOSTokenID int `json:"forced_bos_token_id"`
		MaxLength        int `json:"max_length"`
		NumBeams         int `json:"num_beams"`
	} `json:"parameters"`
	RequestIDHeader string `json:"-"`
}

// FakeSeq2Seq mocks the seq2seq inference server. Reply decides the
// translation for each call; a non-empty error string answers with
// HTTP 500.
type FakeSeq2Seq struct {
	*httptest.Server

	Reply func(call GenerateCall) (string, string)

	mu    sync.Mutex
	calls []GenerateCall
}

// NewFakeSeq2Seq starts a fake inference server that is closed when the
// test ends. By default it answers "[<tgt_lang>] <inputs>".
func NewFakeSeq2Seq(t *testing.T) *FakeSeq2Seq {
	t.Helper()

	f := &FakeSeq2Seq{
		Reply: func(call GenerateCall) (string, string) {
			return "[" + call.TgtLang + "] " + call.Inputs, ""
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/generate", f.handleGenerate)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *FakeSeq2Seq) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var call GenerateCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	call.RequestIDHeader = r.Header.Get("X-Request-ID")

	f.mu.Lock()
	f.calls = append(f.calls, call)
	reply := f.Reply
	f.mu.Unlock()

	text, errMsg := reply(call)
	w.Header().Set("Content-Type", "application/json")
	if errMsg != "" {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": errMsg})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"translation_text": text})
}

// Calls returns a copy of the requests received so far.
func (f *FakeSeq2Seq) Calls() []GenerateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]GenerateCall(nil), f.calls...)
}
