package domain

import "time"

// Meta mirrors the persistence service's stored-entity envelope (numeric id
// plus timestamps), which every remote entity carries on the wire.
type Meta struct {
	ID        uint      `json:"ID"`
	CreatedAt time.Time `json:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt"`
}

// StellarWallet is a user's registered ledger account. The secret key is
// only ever present for accounts created by this client; the persistence
// service never returns it.
type StellarWallet struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey,omitempty"`
}

type User struct {
	Meta
	FirebaseID    string        `json:"firebase_id"`
	Email         string        `json:"email"`
	Role          UserRole      `json:"role"`
	StellarWallet StellarWallet `json:"stellarWallet"`
}
