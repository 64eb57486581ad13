package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/nightcrawler/redis-rpc-gateway/internal/gwconfig"
	"github.com/nightcrawler/redis-rpc-gateway/internal/poolreg"
)

// wordParts is the word list original_source/scripts/create_kk_keys.py
// combines three at a time to build demo key names.
var wordParts = sortedWordParts([]string{
	"knowledgeable", "true", "shivering", "nerve", "pear", "year", "shut",
	"possess", "typical", "diligent", "innate", "judge", "lighten", "share",
	"inconclusive", "believe", "fertile", "trap", "curtain", "chivalrous",
	"hate", "lock", "drum", "lumpy", "opposite", "subsequent", "loud",
	"lean", "hospital", "open", "rescue", "rod", "false", "elastic", "knit",
	"root", "store", "lopsided", "knee", "past", "popcorn", "quilt",
	"doubt", "imported", "delirious", "label", "mourn", "rejoice",
	"squalid", "provide", "creature", "reaction", "ignore", "vase",
	"ossified", "ignorant", "plant", "cactus", "excuse", "doctor", "kind",
	"inquisitive", "throne", "fit", "fire", "extra-small", "ducks",
	"sheep", "stimulating", "found", "motion", "smash", "yarn", "cover",
	"jar", "warlike", "mailbox", "long", "absorbed", "destruction",
	"drunk", "quarrelsome", "pencil", "alarm", "apparel", "silver",
	"obese", "hammer", "faded", "oil", "sense", "prickly", "venomous",
	"laughable", "juice", "spot", "helpful", "calculator", "coil", "bat",
})

func sortedWordParts(parts []string) []string {
	sort.Strings(parts)
	return parts
}

const keyDelimiters = ":/"

var seedPoolName string
var seedCount int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write demo keys into a pool for exercising keyscan locally",
	Long: `seed reproduces original_source/scripts/create_kk_keys.py: it combines
wordParts three at a time into key names and, per key, randomly writes a
hash, sorted set, set, list, or plain string, pipelined against the
target pool.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedPoolName, "pool", "", "pool name to seed (defaults to the service pool)")
	seedCmd.Flags().IntVar(&seedCount, "count", 1000, "number of demo keys to write")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := gwconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	pools := poolreg.New(cfg.Pools)
	defer func() { _ = pools.Close() }()

	var client *redis.Client
	if seedPoolName == "" {
		pool, rpcErr := pools.Service()
		if rpcErr != nil {
			return fmt.Errorf("resolving service pool: %s", rpcErr.Message)
		}
		client = pool.Client
	} else {
		pool, rpcErr := pools.Get(seedPoolName)
		if rpcErr != nil {
			return fmt.Errorf("resolving pool %q: %s", seedPoolName, rpcErr.Message)
		}
		client = pool.Client
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	written, err := seedKeys(ctx, client, seedCount)
	if err != nil {
		return fmt.Errorf("seeding keys: %w", err)
	}
	fmt.Printf("wrote %d demo keys\n", written)
	return nil
}

// seedKeys walks combinationsOf3(wordParts) in order, writing up to
// count keys through a single pipeline, mirroring the Python script's
// pipe-then-execute shape.
func seedKeys(ctx context.Context, client *redis.Client, count int) (int, error) {
	combos := combinationsOf3(wordParts)
	pipe := client.Pipeline()

	written := 0
	for written < count {
		comb, ok := combos()
		if !ok {
			break
		}
		key := strings.Join(comb[:], string(keyDelimiters[rand.Intn(len(keyDelimiters))]))
		pipe.Del(ctx, key)
		seedOneKey(ctx, pipe, key)
		written++
	}
	if written == 0 {
		return 0, nil
	}
	_, err := pipe.Exec(ctx)
	return written, err
}

// seedOneKey enqueues one randomly-typed write for key, reproducing
// create_kk_keys.py's magic_number branch selection.
func seedOneKey(ctx context.Context, pipe redis.Pipeliner, key string) {
	switch magicNumber := rand.Intn(10); {
	case magicNumber == 1:
		bundle := make(map[string]interface{}, len(wordParts))
		for range wordParts {
			bundle[randomPart()] = randomPart()
		}
		pipe.HSet(ctx, key, bundle)
	case magicNumber == 3:
		members := make([]*redis.Z, 0, len(wordParts))
		for range wordParts {
			members = append(members, &redis.Z{Score: float64(1 + rand.Intn(10)), Member: randomPart()})
		}
		pipe.ZAdd(ctx, key, members...)
	case magicNumber == 5:
		members := make([]interface{}, len(wordParts))
		for i, p := range wordParts {
			members[i] = p
		}
		pipe.SAdd(ctx, key, members...)
	case magicNumber == 7:
		members := make([]interface{}, len(wordParts))
		for i, p := range wordParts {
			members[i] = p
		}
		pipe.LPush(ctx, key, members...)
	default:
		pipe.Set(ctx, key, "here i am", 0)
	}
}

func randomPart() string {
	return wordParts[rand.Intn(len(wordParts))]
}

// combinationsOf3 returns a generator yielding successive 3-combinations
// of parts in lexicographic index order, matching Python's
// itertools.combinations(parts, 3).
func combinationsOf3(parts []string) func() ([3]string, bool) {
	n := len(parts)
	i, j, k := 0, 1, 2
	first := true
	return func() ([3]string, bool) {
		if n < 3 {
			return [3]string{}, false
		}
		if first {
			first = false
			return [3]string{parts[i], parts[j], parts[k]}, true
		}
		k++
		if k >= n {
			j++
			k = j + 1
			if k >= n {
				i++
				j = i + 1
				k = j + 1
			}
		}
		if i >= n-2 {
			return [3]string{}, false
		}
		return [3]string{parts[i], parts[j], parts[k]}, true
	}
}
