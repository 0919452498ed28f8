package catalog

import (
	"time"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
)

// MapCenter is the default map centre (Dushanbe)
var MapCenter = models.Location{Lat: 38.5598, Lon: 68.7870}

// Default returns the built-in catalog used when no catalog file is configured
func Default() *Catalog {
	points := []*models.RecyclingPoint{
		{
			ID:          "point-1",
			Location:    models.Location{Lat: 38.5598, Lon: 68.7870},
			Material:    models.MaterialPlastic,
			Title:       "Point 1",
			Address:     "пр. Рудаки, 22",
			Description: "Приём ПЭТ-бутылок и пластиковой тары.",
			Photos:      []string{"point1_1.jpg", "point1_2.jpg"},
			Contacts:    []string{"+992 37 221-00-01", "plastic@repunto.tj"},
		},
		{
			ID:          "point-2",
			Location:    models.Location{Lat: 38.5650, Lon: 68.7800},
			Material:    models.MaterialMetal,
			Title:       "Point 2",
			Address:     "ул. Айни, 48",
			Description: "Алюминиевые банки и металлолом.",
			Photos:      []string{"point2_1.jpg"},
			Contacts:    []string{"+992 37 221-00-02"},
		},
		{
			ID:          "point-3",
			Location:    models.Location{Lat: 38.5550, Lon: 68.7950},
			Material:    models.MaterialPaper,
			Title:       "Point 3",
			Address:     "ул. Шотемур, 15",
			Description: "Макулатура, картон, газеты.",
			Photos:      []string{"point3_1.jpg", "point3_2.jpg"},
			Contacts:    []string{"+992 37 221-00-03"},
		},
	}

	articles := []*models.Article{
		{
			Slug:    "why-sort-plastic",
			Title:   "Зачем сортировать пластик",
			Image:   "article_plastic.jpg",
			Summary: "Как раздельный сбор продлевает жизнь материалам.",
			Date:    time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
			Content: "Пластиковая бутылка разлагается сотни лет. Переработанный ПЭТ снова становится волокном, тарой и упаковкой.",
		},
		{
			Slug:    "paper-cycle",
			Title:   "Второй круг бумаги",
			Image:   "article_paper.jpg",
			Summary: "Сколько деревьев спасает тонна макулатуры.",
			Date:    time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC),
			Content: "Одна тонна макулатуры сохраняет около 17 деревьев и тысячи литров воды.",
		},
	}

	facts := []string{
		"Алюминиевую банку можно перерабатывать бесконечно.",
		"Стекло разлагается в природе более 1000 лет.",
		"Одна батарейка загрязняет до 20 м² почвы.",
	}

	c, err := New(points, articles, facts)
	if err != nil {
		panic("catalog: built-in catalog is invalid: " + err.Error())
	}
	return c
}
