//go:build integration

package postgres_test

import (
	"context"
	"sync"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/usecase"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newCar(mk string, year int, price float64, location *string) domain.CarMutation {
	return domain.CarMutation{Car: domain.Car{Make: mk, Model: "Model", Year: year, Price: price, Mileage: 1000, Location: location}}
}

func str(s string) *string { return &s }

var _ = Describe("Catalog storage", func() {
	Describe("Search", func() {
		BeforeEach(func() {
			for _, m := range []domain.CarMutation{
				newCar("BMW", 1999, 5000, str("Москва")),
				newCar("BMW", 2010, 15000, nil),
				newCar("Audi", 2021, 30000, str("Казань")),
			} {
				_, err := cars.Create(ctx, m)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("counts with the same predicate as the page", func() {
			res, err := cars.Search(ctx, domain.CarFilter{Makes: []string{"BMW"}}, domain.PageRequest{Page: 0, Size: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TotalCount).To(Equal(2))
			Expect(res.Items).To(HaveLen(1))

			var independent int
			Expect(pool.QueryRow(ctx, "SELECT COUNT(*) FROM cars WHERE make = 'BMW'").Scan(&independent)).To(Succeed())
			Expect(res.TotalCount).To(Equal(independent))
		})

		It("treats an empty make set as no filter", func() {
			all, err := cars.Search(ctx, domain.CarFilter{}, domain.PageRequest{})
			Expect(err).NotTo(HaveOccurred())
			empty, err := cars.Search(ctx, domain.CarFilter{Makes: []string{}}, domain.PageRequest{})
			Expect(err).NotTo(HaveOccurred())
			Expect(empty.TotalCount).To(Equal(all.TotalCount))
			Expect(all.TotalCount).To(Equal(3))
		})

		It("keeps cars without location in location searches", func() {
			res, err := cars.Search(ctx, domain.CarFilter{City: str("Моск")}, domain.PageRequest{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TotalCount).To(Equal(2))
		})

		It("matches wildcard characters in location literally", func() {
			res, err := cars.Search(ctx, domain.CarFilter{City: str("_")}, domain.PageRequest{})
			Expect(err).NotTo(HaveOccurred())
			// совпадает только автомобиль без местоположения
			Expect(res.TotalCount).To(Equal(1))
		})

		It("sorts by price descending", func() {
			res, err := cars.Search(ctx, domain.CarFilter{}, domain.PageRequest{SortBy: "price", SortDirection: "desc"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Items[0].Price).To(Equal(30000.0))
		})

		It("returns catalog ranges", func() {
			years, err := stats.YearRange(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(years).To(Equal(domain.IntRange{Min: 1999, Max: 2021}))

			prices, err := stats.PriceRange(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(prices).To(Equal(domain.PriceRange{Min: 5000, Max: 30000}))

			models, err := stats.ListModelsByMakes(ctx, []string{"bmw"})
			Expect(err).NotTo(HaveOccurred())
			Expect(models).To(Equal([]string{"Model"}))
		})
	})

	It("returns zero ranges on an empty catalog", func() {
		years, err := stats.YearRange(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(years).To(Equal(domain.IntRange{}))
		prices, err := stats.PriceRange(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(prices).To(Equal(domain.PriceRange{}))
	})

	It("creates a concurrently requested color exactly once", func() {
		normalizer := usecase.NewReferenceNormalizer(dicts)

		var wg sync.WaitGroup
		ids := make([]int64, 8)
		errs := make([]error, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = tx.WithinTransaction(ctx, func(ctx context.Context) error {
					item, err := normalizer.ResolveOrCreate(ctx, domain.KindColor, "it-Red")
					if err == nil {
						ids[i] = item.ID
					}
					return err
				})
			}(i)
		}
		wg.Wait()

		for i := range ids {
			Expect(errs[i]).NotTo(HaveOccurred())
			Expect(ids[i]).To(Equal(ids[0]))
		}
		var n int
		Expect(pool.QueryRow(ctx, "SELECT COUNT(*) FROM colors WHERE name = 'it-Red'").Scan(&n)).To(Succeed())
		Expect(n).To(Equal(1))
	})

	It("cascades the aggregate on delete", func() {
		id, err := cars.Create(ctx, domain.CarMutation{
			Car:       domain.Car{Make: "Lada", Model: "Vesta", Year: 2020, Price: 9000, Mileage: 10},
			Spec:      &domain.TechnicalSpec{EngineInfo: "1.6L"},
			PhotoURLs: []string{"/uploads/cars/1/a.jpg"},
		})
		Expect(err).NotTo(HaveOccurred())

		car, err := cars.GetByID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(car.Photos).To(HaveLen(1))
		Expect(car.TechnicalSpec.EngineInfo).To(Equal("1.6L"))

		Expect(cars.Delete(ctx, id)).To(Succeed())
		_, err = cars.GetByID(ctx, id)
		Expect(err).To(MatchError(domain.ErrNotFound))

		var left int
		Expect(pool.QueryRow(ctx, "SELECT COUNT(*) FROM car_photos").Scan(&left)).To(Succeed())
		Expect(left).To(BeZero())
		Expect(cars.Delete(ctx, id)).To(MatchError(domain.ErrNotFound))
	})

	It("keeps the main photo flag in sync", func() {
		id, err := cars.Create(ctx, newCar("Kia", 2019, 8000, nil))
		Expect(err).NotTo(HaveOccurred())

		_, err = photos.Add(ctx, id, "/uploads/cars/1/a.jpg", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(photos.SetMainPhotoURL(ctx, id, str("/uploads/cars/1/a.jpg"))).To(Succeed())

		list, err := photos.ListByCar(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].IsMain).To(BeTrue())
	})
})
