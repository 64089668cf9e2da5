// Command seed-db prepares a database for local development: it runs the
// migrations, loads catalog items from a JSON file, creates a default price
// list with computed entries, and installs an API key.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salekit/sale-api/internal/domain/catalog"
	"github.com/salekit/sale-api/internal/domain/pricelist"
	"github.com/salekit/sale-api/internal/storage/postgres"
)

type itemJSON struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitTax   decimal.Decimal `json:"unit_tax"`
}

func main() {
	var (
		databaseURL  string
		itemsFile    string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&itemsFile, "items-file", "db/seed/items.json", "path to catalog items JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or SALE_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or SALE_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("SALE_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or SALE_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("SALE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, itemsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, itemsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	catalogRepo := postgres.NewCatalogRepository(pool)
	priceListRepo := postgres.NewPriceListRepository(pool)

	items, itemIDs, err := seedItems(ctx, catalogRepo, itemsFile)
	if err != nil {
		return errors.Wrap(err, "seed catalog items")
	}

	if err := seedPriceList(ctx, priceListRepo, items, itemIDs); err != nil {
		return errors.Wrap(err, "seed price list")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

// seedItems creates missing catalog items and returns the loaded definitions
// together with a code to item ID mapping.
func seedItems(ctx context.Context, repo catalog.Repository, itemsFile string) ([]itemJSON, map[string]string, error) {
	slog.Info("reading items file", slog.String("path", itemsFile))

	data, err := os.ReadFile(itemsFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read items file")
	}

	var items []itemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, errors.Wrap(err, "parse items JSON")
	}

	slog.Info("creating catalog items", slog.Int("count", len(items)))

	ids := make(map[string]string, len(items))
	for _, it := range items {
		existing, err := repo.GetByCode(ctx, it.Code)
		if err == nil {
			ids[it.Code] = existing.ID
			slog.Info("item exists, skipping", slog.String("code", it.Code))
			continue
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, nil, errors.Wrapf(err, "check item %s", it.Code)
		}

		item := catalog.Item{
			ID:   uuid.New().String(),
			Code: it.Code,
			Name: it.Name,
		}
		if err := repo.Create(ctx, &item); err != nil {
			return nil, nil, errors.Wrapf(err, "create item %s", it.Code)
		}
		ids[it.Code] = item.ID

		slog.Info("created item", slog.String("code", it.Code), slog.String("name", it.Name))
	}

	return items, ids, nil
}

func seedPriceList(ctx context.Context, repo pricelist.Repository, items []itemJSON, itemIDs map[string]string) error {
	slog.Info("seeding default price list")

	svc := pricelist.NewService(repo)

	pl, err := svc.CreateList(ctx, "DEFAULT", "Default price list")
	if err != nil {
		return errors.Wrap(err, "create default price list")
	}

	for _, it := range items {
		if it.UnitPrice.IsZero() {
			continue
		}
		_, err := svc.CreateItem(ctx, pricelist.CreateItemRequest{
			PriceListID: pl.ID,
			ItemID:      itemIDs[it.Code],
			UnitPrice:   it.UnitPrice,
			UnitTax:     it.UnitTax,
		})
		if err != nil {
			if errors.Is(err, pricelist.ErrDuplicateItem) {
				continue
			}
			return errors.Wrapf(err, "create price for %s", it.Code)
		}

		slog.Info("priced item",
			slog.String("code", it.Code),
			slog.String("unit_price", it.UnitPrice.String()),
		)
	}

	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	_, err := pool.Exec(ctx, `
		INSERT INTO api_keys (id, key_hash, name, scopes)
		VALUES ('default', $1, 'Default test key', '{manage_orders}')
		ON CONFLICT (id) DO UPDATE SET key_hash = EXCLUDED.key_hash`,
		keyHash,
	)
	if err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"))
	return nil
}
