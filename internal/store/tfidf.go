package store

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/token"
)

// Per-field weights for semantic scoring. A hit on the symbol name counts
// four times a qualified-name hit.
func sourceWeight(source string) float64 {
	switch source {
	case "name":
		return 4
	case "signature":
		return 2
	case "docstring":
		return 1.5
	default:
		return 1
	}
}

// BuildTFIDF rebuilds the token and IDF tables wholesale from the current
// node set. It runs inside one transaction; partial updates are not
// attempted.
func (s *Store) BuildTFIDF() error {
	return s.WithTransaction(func(tx *Store) error {
		return tx.buildTFIDF()
	})
}

func (s *Store) buildTFIDF() error {
	for _, stmt := range []string{"DELETE FROM node_tokens", "DELETE FROM token_idf"} {
		if _, err := s.q.Exec(stmt); err != nil {
			return fmt.Errorf("truncate tfidf: %w", err)
		}
	}

	nodes, err := s.AllNodes()
	if err != nil {
		return fmt.Errorf("tfidf nodes: %w", err)
	}

	docFreq := make(map[string]int)
	for _, n := range nodes {
		nodeTokens := make(map[string]bool)
		fields := []struct{ source, text string }{
			{"name", n.Name},
			{"qualified_name", n.QualifiedName},
			{"signature", n.Signature},
			{"docstring", n.Docstring},
		}
		for _, f := range fields {
			counts := make(map[string]int)
			maxCount := 0
			for _, t := range token.Tokenize(f.text) {
				counts[t]++
				if counts[t] > maxCount {
					maxCount = counts[t]
				}
			}
			if maxCount == 0 {
				continue
			}
			for t, c := range counts {
				tf := float64(c) / float64(maxCount)
				if _, err := s.q.Exec(`
					INSERT INTO node_tokens (node_id, token, tf, source) VALUES (?, ?, ?, ?)
					ON CONFLICT(node_id, token, source) DO UPDATE SET tf=excluded.tf`,
					n.ID, t, tf, f.source); err != nil {
					return fmt.Errorf("insert token: %w", err)
				}
				nodeTokens[t] = true
			}
		}
		for t := range nodeTokens {
			docFreq[t]++
		}
	}

	total := len(nodes)
	for t, df := range docFreq {
		idf := math.Log(float64(total+1)/float64(df+1)) + 1
		if _, err := s.q.Exec(`
			INSERT INTO token_idf (token, idf, df) VALUES (?, ?, ?)
			ON CONFLICT(token) DO UPDATE SET idf=excluded.idf, df=excluded.df`,
			t, idf, df); err != nil {
			return fmt.Errorf("insert idf: %w", err)
		}
	}
	return nil
}

// SemanticResult is a node with its TF-IDF relevance score.
type SemanticResult struct {
	Node  *graph.Node
	Score float64
}

// SemanticSearch ranks nodes by summed tf·idf·weight over the query
// tokens. An empty query returns an empty result. Ties break on node id
// for determinism.
func (s *Store) SemanticSearch(query string, limit int) ([]*SemanticResult, error) {
	if limit <= 0 {
		limit = 10
	}
	tokens := token.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	total, err := s.CountNodes()
	if err != nil {
		return nil, err
	}
	// A token absent from the corpus gets the maximum rarity.
	defaultIDF := math.Log(float64(total + 1))

	idf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		idf[t] = defaultIDF
	}
	args := make([]any, len(tokens))
	for i, t := range tokens {
		args[i] = t
	}
	in := placeholders(len(tokens))

	rows, err := s.q.Query("SELECT token, idf FROM token_idf WHERE token IN ("+in+")", args...)
	if err != nil {
		return nil, fmt.Errorf("idf lookup: %w", err)
	}
	for rows.Next() {
		var t string
		var v float64
		if err := rows.Scan(&t, &v); err != nil {
			rows.Close()
			return nil, err
		}
		idf[t] = v
	}
	rows.Close()

	scores := make(map[string]float64)
	rows, err = s.q.Query("SELECT node_id, token, tf, source FROM node_tokens WHERE token IN ("+in+")", args...)
	if err != nil {
		return nil, fmt.Errorf("token lookup: %w", err)
	}
	for rows.Next() {
		var nodeID, t, source string
		var tf float64
		if err := rows.Scan(&nodeID, &t, &tf, &source); err != nil {
			rows.Close()
			return nil, err
		}
		scores[nodeID] += tf * idf[t] * sourceWeight(source)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return strings.Compare(ids[i], ids[j]) < 0
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	results := make([]*SemanticResult, 0, len(ids))
	for _, id := range ids {
		n, err := s.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n != nil {
			results = append(results, &SemanticResult{Node: n, Score: scores[id]})
		}
	}
	return results, nil
}
