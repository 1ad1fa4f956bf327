package memstore

import (
	"encoding/json"
	"fmt"

	"github.com/civictrust-api/internal/domain"
)

// snapshot is the serialized form of the whole store.
type snapshot struct {
	OTPs     map[string]domain.OTPRecord      `json:"otps"`
	Accounts map[string]domain.PointsAccount  `json:"accounts"`
	Events   map[string][]domain.PointsEvent  `json:"events"`
	Codes    map[string]domain.RedemptionCode `json:"codes"`
	Wallets  map[string]domain.WalletLink     `json:"wallets"`
}

// Snapshot serializes the full store state. Taken under the store lock, so
// the snapshot is internally consistent.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(snapshot{
		OTPs:     s.otps,
		Accounts: s.accounts,
		Events:   s.events,
		Codes:    s.codes,
		Wallets:  s.wallets,
	})
}

// Restore replaces the store state with a previously taken snapshot.
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.OTPs != nil {
		s.otps = snap.OTPs
	}
	if snap.Accounts != nil {
		s.accounts = snap.Accounts
	}
	if snap.Events != nil {
		s.events = snap.Events
	}
	if snap.Codes != nil {
		s.codes = snap.Codes
	}
	if snap.Wallets != nil {
		s.wallets = snap.Wallets
	}
	return nil
}
