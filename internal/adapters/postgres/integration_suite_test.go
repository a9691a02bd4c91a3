//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/Newichka/autoBro/internal/adapters/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	tc "github.com/testcontainers/testcontainers-go"
	pgtc "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgImage = "postgres:17.0-alpine3.20"
	pgUser  = "catalog-user"
	pgPass  = "catalog-pass"
	pgDB    = "catalog-db"
)

var (
	ctx  context.Context
	pgC  *pgtc.PostgresContainer
	pool *pgxpool.Pool

	tx     *postgres.Transactor
	cars   *postgres.CarStorageAdapter
	photos *postgres.PhotoRepository
	dicts  *postgres.DictionaryRepository
	stats  *postgres.StatisticsRepository
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Postgres Integration Suite")
}

var _ = BeforeSuite(func() {
	ctx = context.Background()

	By("starting postgres container")
	var err error
	pgC, err = pgtc.Run(ctx,
		pgImage,
		pgtc.WithDatabase(pgDB),
		pgtc.WithUsername(pgUser),
		pgtc.WithPassword(pgPass),
		tc.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	Expect(err).NotTo(HaveOccurred())

	dbURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	Expect(err).NotTo(HaveOccurred())

	By("creating pgx pool")
	pool, err = pgxpool.New(ctx, dbURL)
	Expect(err).NotTo(HaveOccurred())

	Eventually(func(g Gomega) {
		g.Expect(pool.Ping(ctx)).To(Succeed())
	}).WithTimeout(10 * time.Second).WithPolling(200 * time.Millisecond).Should(Succeed())

	By("running migrations")
	Expect(postgres.Migrate(ctx, pool)).To(Succeed())

	tx, err = postgres.NewTransactor(pool)
	Expect(err).NotTo(HaveOccurred())
	cars, err = postgres.NewCarStorageAdapter(pool)
	Expect(err).NotTo(HaveOccurred())
	photos, err = postgres.NewPhotoRepository(pool)
	Expect(err).NotTo(HaveOccurred())
	dicts, err = postgres.NewDictionaryRepository(pool)
	Expect(err).NotTo(HaveOccurred())
	stats, err = postgres.NewStatisticsRepository(pool)
	Expect(err).NotTo(HaveOccurred())
})

var _ = AfterSuite(func() {
	if pool != nil {
		pool.Close()
	}
	if pgC != nil {
		_ = pgC.Terminate(ctx)
	}
})

var _ = BeforeEach(func() {
	By("cleaning cars")
	_, err := pool.Exec(ctx, "TRUNCATE TABLE cars RESTART IDENTITY CASCADE")
	Expect(err).NotTo(HaveOccurred())
	_, err = pool.Exec(ctx, "DELETE FROM colors WHERE name LIKE 'it-%'")
	Expect(err).NotTo(HaveOccurred())
})
