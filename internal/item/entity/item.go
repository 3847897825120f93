package entity

import "encoding/json"

// Stored is an item as persisted: the value is ciphertext.
type Stored struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Item is a decrypted item.
type Item struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}
