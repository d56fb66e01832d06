package dto

// SeedFile is the YAML layout accepted by the seed command.
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
}

type SeedCategory struct {
	Name     string        `yaml:"name"`
	Products []SeedProduct `yaml:"products"`
}

// Prices are strings so YAML never turns them into floats.
type SeedProduct struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	OldPrice    string `yaml:"old_price"`
	Available   *bool  `yaml:"available"`
	Featured    bool   `yaml:"featured"`
	Promotion   bool   `yaml:"promotion"`
	ImageURL    string `yaml:"image_url"`
}

type SeedResult struct {
	CategoriesCreated int `json:"categories_created"`
	ProductsCreated   int `json:"products_created"`
	ProductsSkipped   int `json:"products_skipped"`
}
