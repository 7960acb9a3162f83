package jwks

import "time"

// KeyStatus describes one cached key without exposing key material.
type KeyStatus struct {
	Kid         string `json:"kid"`
	Alg         string `json:"alg,omitempty"`
	Fingerprint string `json:"spki_sha256,omitempty"`
}

type Status struct {
	URL       string      `json:"url"`
	Keys      []KeyStatus `json:"keys"`
	FetchedAt time.Time   `json:"fetched_at,omitzero"`
	AgeSec    int64       `json:"age_seconds"`
	Fresh     bool        `json:"fresh"`
	Alarm     bool        `json:"stale_alarm"`
	LastError string      `json:"last_error,omitempty"`
}

// Status reports the cache state. It never triggers a fetch.
func (s *KeyStore) Status() Status {
	s.mu.RLock()
	set, fetchedAt, lastErr := s.set, s.fetchedAt, s.lastErr
	s.mu.RUnlock()

	st := Status{URL: s.URL, Keys: []KeyStatus{}}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}
	if set == nil {
		return st
	}

	age := s.now().Sub(fetchedAt)
	st.FetchedAt = fetchedAt
	st.AgeSec = int64(age / time.Second)
	st.Fresh = age < s.maxAge()
	st.Alarm = s.StaleAlarm > 0 && age > s.StaleAlarm
	for _, k := range set.Keys {
		ks := KeyStatus{Kid: k.Kid, Alg: k.Alg}
		if fp, err := k.Fingerprint(); err == nil {
			ks.Fingerprint = fp
		}
		st.Keys = append(st.Keys, ks)
	}
	return st
}
