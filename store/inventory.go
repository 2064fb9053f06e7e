package store

import "context"

// Count returns the number of stored products.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, err
	}
	return n, nil
}
