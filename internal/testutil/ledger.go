package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/liftedinit/gopay/internal/models"
)

// GenesisTime is the timestamp origin used by FakeLedger blocks.
var GenesisTime = time.Date(2024, 11, 20, 10, 30, 0, 0, time.UTC)

// FakeLedger is an in-process ledger service speaking the /blocks protocol.
type FakeLedger struct {
	URL string

	mu         sync.Mutex
	blocks     []models.Block
	appended   []models.TransactionMessage
	failFetch  int
	failAppend func(models.TransactionMessage) bool
}

// NewFakeLedger starts a fake ledger seeded with a genesis block. It is closed on test cleanup.
func NewFakeLedger(t *testing.T) *FakeLedger {
	t.Helper()

	l := &FakeLedger{}
	l.blocks = []models.Block{{
		Index:             0,
		UserID:            "test",
		Timestamp:         GenesisTime.String(),
		TransactionStatus: "Gas fee",
	}}

	r := mux.NewRouter()
	r.HandleFunc("/blocks", l.handleGetBlocks).Methods(http.MethodGet)
	r.HandleFunc("/blocks", l.handleWriteBlock).Methods(http.MethodPost)
	r.HandleFunc("/blocks/{id}", l.handleGetBlock).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	l.URL = srv.URL
	t.Cleanup(srv.Close)

	return l
}

// SetBlocks replaces the ledger content.
func (l *FakeLedger) SetBlocks(blocks []models.Block) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blocks = blocks
}

// Blocks returns a copy of the ledger content.
func (l *FakeLedger) Blocks() []models.Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Block(nil), l.blocks...)
}

// Appended returns the transaction messages received, in arrival order.
func (l *FakeLedger) Appended() []models.TransactionMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.TransactionMessage(nil), l.appended...)
}

// FailFetches makes the next n GET /blocks requests answer 500.
func (l *FakeLedger) FailFetches(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failFetch = n
}

// FailAppendWhen makes POST /blocks answer 500 for messages matching fn.
func (l *FakeLedger) FailAppendWhen(fn func(models.TransactionMessage) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failAppend = fn
}

func (l *FakeLedger) handleGetBlocks(w http.ResponseWriter, _ *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failFetch > 0 {
		l.failFetch--
		http.Error(w, "ledger unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, l.blocks)
}

func (l *FakeLedger) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err == nil {
		for _, block := range l.blocks {
			if block.Index == id {
				writeJSON(w, http.StatusOK, block)
				return
			}
		}
	}
	http.Error(w, "Block not found", http.StatusNotFound)
}

func (l *FakeLedger) handleWriteBlock(w http.ResponseWriter, r *http.Request) {
	var m models.TransactionMessage
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.appended = append(l.appended, m)
	if l.failAppend != nil && l.failAppend(m) {
		http.Error(w, "append rejected", http.StatusInternalServerError)
		return
	}

	prev := l.blocks[len(l.blocks)-1]
	block := models.Block{
		Index:             prev.Index + 1,
		UserID:            m.UserID,
		Timestamp:         GenesisTime.Add(time.Duration(prev.Index+1) * time.Minute).String(),
		TransactionID:     m.TransactionID,
		TransactionStatus: m.TransactionStatus,
		PrevHash:          prev.Hash,
	}
	block.Hash = HashBlock(block)
	l.blocks = append(l.blocks, block)

	writeJSON(w, http.StatusCreated, block)
}

// HashBlock computes the SHA-256 digest the ledger service assigns to a block.
func HashBlock(b models.Block) string {
	record := fmt.Sprintf("%d%s%s%d%s%s", b.Index, b.UserID, b.Timestamp, b.TransactionID, b.TransactionStatus, b.PrevHash)
	sum := sha256.Sum256([]byte(record))
	return hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
