// Package gwconfig implements the gateway's environment-driven
// configuration: REDIS_* DSN enumeration into pool specs, and ambient
// scalar settings loaded with koanf (spec.md §6, SPEC_FULL.md §4.7).
package gwconfig

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/nightcrawler/redis-rpc-gateway/internal/poolreg"
)

const redisVarPrefix = "REDIS_"

// defaultDSN is injected when no REDIS_* variable is present in the
// environment (spec.md §6).
const defaultDSN = "redis://localhost:6379"

// LoadPools enumerates every REDIS_* variable in environ (the
// "KEY=VALUE" form os.Environ() returns), in natural-sort order of
// variable name, and builds one poolreg.Spec per entry. Duplicate
// explicit names are a fatal configuration error.
func LoadPools(environ []string) ([]poolreg.Spec, error) {
	names, values := collectRedisVars(environ)
	if len(names) == 0 {
		names = []string{"REDIS_0"}
		values = map[string]string{"REDIS_0": defaultDSN}
	}

	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })

	specs := make([]poolreg.Spec, 0, len(names))
	seen := make(map[string]string, len(names))
	var serviceAssigned bool

	for ordinal, varName := range names {
		spec, err := parseDSN(values[varName], ordinal)
		if err != nil {
			return nil, fmt.Errorf("gwconfig: %s: %w", varName, err)
		}
		if prior, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("gwconfig: duplicate pool name %q (from %s and %s)", spec.Name, prior, varName)
		}
		seen[spec.Name] = varName
		if !serviceAssigned {
			spec.Service = true
			serviceAssigned = true
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func collectRedisVars(environ []string) ([]string, map[string]string) {
	names := make([]string, 0)
	values := make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, redisVarPrefix) {
			continue
		}
		names = append(names, k)
		values[k] = v
	}
	return names, values
}

// parseDSN decodes one `redis://[user:pass@]host:port[/db]?...` DSN per
// spec.md §6's query parameter table.
func parseDSN(dsn string, ordinal int) (poolreg.Spec, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return poolreg.Spec{}, fmt.Errorf("invalid DSN %q: %w", dsn, err)
	}

	spec := poolreg.Spec{
		ID:   ordinal,
		Addr: u.Host,
		TLS:  u.Scheme == "rediss",
	}
	if password, ok := u.User.Password(); ok {
		spec.Password = password
	} else if u.User != nil {
		spec.Password = u.User.Username()
	}

	q := u.Query()
	if name := q.Get("name"); name != "" {
		spec.Name = name
	} else {
		spec.Name = fmt.Sprintf("redis_%d", ordinal)
	}
	if q.Get("ssl") == "true" || q.Get("ssl") == "1" {
		spec.TLS = true
	}
	if db, ok := dbFromDSN(u, q); ok {
		spec.DB = db
	}
	if minsize := q.Get("minsize"); minsize != "" {
		if n, err := strconv.Atoi(minsize); err == nil {
			spec.MinIdleConns = n
		}
	}
	if maxsize := q.Get("maxsize"); maxsize != "" {
		if n, err := strconv.Atoi(maxsize); err == nil {
			spec.PoolSize = n
		}
	}
	if timeout := q.Get("create_connection_timeout"); timeout != "" {
		if secs, err := strconv.ParseFloat(timeout, 64); err == nil {
			spec.DialTimeout = time.Duration(secs * float64(time.Second))
		}
	}
	return spec, nil
}

func dbFromDSN(u *url.URL, q url.Values) (int, bool) {
	if db := q.Get("db"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			return n, true
		}
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		if n, err := strconv.Atoi(path); err == nil {
			return n, true
		}
	}
	return 0, false
}

// naturalLess orders variable names the way a human would: runs of
// digits compare numerically rather than lexicographically, so REDIS_2
// sorts before REDIS_10.
func naturalLess(a, b string) bool {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		ca, cb := ar[i], br[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			ni, na := scanDigits(ar, i)
			nj, nb := scanDigits(br, j)
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(ar)-i < len(br)-j
}

func scanDigits(r []rune, start int) (next int, value string) {
	end := start
	for end < len(r) && unicode.IsDigit(r[end]) {
		end++
	}
	digits := strings.TrimLeft(string(r[start:end]), "0")
	if digits == "" {
		digits = "0"
	}
	return end, digits
}
