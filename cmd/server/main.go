// Command server exposes a loaded finite-state transducer as a JSON REST
// API.
//
// Endpoints:
//
//	GET /api/analyze?form=<surface>
//	GET /api/generate?analysis=<analysis>
//	GET /api/sigma
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"sort"

	"github.com/rs/cors"

	fstlookup "github.com/cours-de-latin/fst-lookup"
)

// ---- JSON response types ------------------------------------------------

type analyzeResponse struct {
	Form     string               `json:"form"`
	Analyses []fstlookup.Analysis `json:"analyses"`
}

type generateResponse struct {
	Analysis string   `json:"analysis"`
	Forms    []string `json:"forms"`
}

type sigmaEntryJSON struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

type sigmaResponse struct {
	Size    int              `json:"size"`
	Symbols []sigmaEntryJSON `json:"symbols"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ---- handlers -----------------------------------------------------------

func handleAnalyze(fst *fstlookup.FST) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		form := r.URL.Query().Get("form")
		if form == "" {
			writeError(w, http.StatusBadRequest, "missing 'form' query parameter")
			return
		}

		analyses := fst.Analyze(form).All()
		status := http.StatusOK
		if len(analyses) == 0 {
			status = http.StatusNotFound
		}
		writeJSON(w, status, analyzeResponse{Form: form, Analyses: analyses})
	}
}

func handleGenerate(fst *fstlookup.FST) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		analysis := r.URL.Query().Get("analysis")
		if analysis == "" {
			writeError(w, http.StatusBadRequest, "missing 'analysis' query parameter")
			return
		}

		forms := fst.Generate(analysis).All()
		status := http.StatusOK
		if len(forms) == 0 {
			status = http.StatusNotFound
		}
		writeJSON(w, status, generateResponse{Analysis: analysis, Forms: forms})
	}
}

func handleSigma(fst *fstlookup.FST) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		sigma := fst.Sigma()
		out := make([]sigmaEntryJSON, 0, sigma.Len())
		for id := 0; id < sigma.Len(); id++ {
			sym, ok := sigma.Lookup(fstlookup.SymbolID(id))
			if !ok {
				continue
			}
			out = append(out, sigmaEntryJSON{ID: id, Kind: sym.Kind.String(), Text: sym.Text})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		writeJSON(w, http.StatusOK, sigmaResponse{Size: sigma.Len(), Symbols: out})
	}
}

// ---- main ---------------------------------------------------------------

func main() {
	fstPath := flag.String("fst", "network.fst", "path to a gzip-compressed Foma network")
	invert := flag.Bool("invert", false, "swap the upper and lower sides of the network")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log.Printf("loading network from %s …", *fstPath)
	fst, err := fstlookup.FromFile(*fstPath, fstlookup.Options{Invert: *invert})
	if err != nil {
		log.Fatalf("failed to load network: %v", err)
	}
	log.Printf("network loaded, sigma size %d", fst.Sigma().Len())

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", handleAnalyze(fst))
	mux.HandleFunc("/api/generate", handleGenerate(fst))
	mux.HandleFunc("/api/sigma", handleSigma(fst))

	handler := cors.Default().Handler(mux)

	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
