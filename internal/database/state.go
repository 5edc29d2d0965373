package database

import (
	"database/sql"
	"encoding/json"

	"wifi-monitor/internal/models"
)

// stateEnvelope is the stored shape of every app_state value. The version
// tag means a future shape change reads as "no previous data" instead of
// silently corrupting whatever happens to unmarshal.
type stateEnvelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// SetState stores value under key, wrapped in a versioned envelope.
func (db *DB) SetState(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(stateEnvelope{Version: models.StateVersion, Data: data})
	if err != nil {
		return err
	}
	_, err = db.Exec(`
        INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP
    `, key, string(blob))
	return err
}

// GetState loads the value under key into out. Returns false when the key
// is absent, the envelope version is unknown, or the blob does not parse;
// the callers' "first scan" degradation path in all three cases.
func (db *DB) GetState(key string, out any) (bool, error) {
	var blob string
	err := db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var env stateEnvelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return false, nil
	}
	if env.Version != models.StateVersion {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, nil
	}
	return true, nil
}
