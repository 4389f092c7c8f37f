package common

import "fmt"

const (
	redisKeyLastPrice  = "watchlist:last_price:%s"
	redisKeyAlertState = "watchlist:alert:%s:%s"
)

// RedisKeyLastPrice is the hash key mirroring the most recent fetched price
// for a symbol.
func RedisKeyLastPrice(symbol string) string {
	return fmt.Sprintf(redisKeyLastPrice, symbol)
}

// RedisKeyAlertState is the key holding the last alerted price for a
// symbol and alert side, used to throttle alert resends.
func RedisKeyAlertState(side, symbol string) string {
	return fmt.Sprintf(redisKeyAlertState, side, symbol)
}
