package store

import (
	"encoding/binary"
	"math"
	"strings"
)

// Optional vector index. The table is created opportunistically on first
// write; nothing else in the store depends on it existing. Embedding
// generation happens outside the store — callers hand in precomputed
// vectors.

// NodeEmbedding pairs a node ID with its stored embedding vector.
type NodeEmbedding struct {
	ID        string
	Embedding []float32
}

const createVectors = `
CREATE TABLE IF NOT EXISTS node_vectors (
    node_id TEXT PRIMARY KEY REFERENCES nodes(id),
    embedding BLOB NOT NULL
);
`

// EnsureVectorTable creates the auxiliary vector table if missing.
func (s *Store) EnsureVectorTable() error {
	_, err := s.conn.Exec(createVectors)
	return err
}

// SetNodeEmbedding stores (upserting) an embedding for a node.
func (s *Store) SetNodeEmbedding(nodeID string, embedding []float32) error {
	if err := s.EnsureVectorTable(); err != nil {
		return err
	}
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO node_vectors (node_id, embedding) VALUES (?, ?)",
		nodeID, embeddingToBytes(embedding))
	return err
}

// NodeEmbeddings returns all stored (id, embedding) pairs. A missing vector
// table reads as empty, not as an error.
func (s *Store) NodeEmbeddings() ([]NodeEmbedding, error) {
	rows, err := s.conn.Query("SELECT node_id, embedding FROM node_vectors ORDER BY node_id")
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var out []NodeEmbedding
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		out = append(out, NodeEmbedding{ID: id, Embedding: bytesToEmbedding(data)})
	}
	return out, rows.Err()
}

// embeddingToBytes serializes a vector as little-endian float32s.
func embeddingToBytes(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// bytesToEmbedding converts a little-endian byte slice to []float32.
// A short trailing chunk reads as 0.0.
func bytesToEmbedding(data []byte) []float32 {
	n := len(data) / 4
	if len(data)%4 != 0 {
		n++
	}
	out := make([]float32, n)
	for i := 0; i < len(data)/4; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}
