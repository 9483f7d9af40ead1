package catalog

import (
	"time"
)

// Category groups products. The external surface keeps the legacy Portuguese
// field and table names the mobile client depends on.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nome;size:255;not null" json:"nome"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categorias"
}

// Product is a catalog entry. ImagePath is nil until an image blob is bound;
// when set it names a blob in the blob store, relative to the public root.
type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"column:nome;size:255;not null" json:"nome"`
	ImagePath   *string    `gorm:"column:imagem;size:255" json:"imagem"`
	Description string     `gorm:"column:descricao;size:255;not null" json:"descricao"`
	Price       Price      `gorm:"column:preco;not null" json:"preco"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Categories  []Category `gorm:"many2many:categoria_produto;joinForeignKey:produto_id;joinReferences:categoria_id" json:"categorias"`
}

// TableName returns the table name for the Product entity.
func (Product) TableName() string {
	return "produtos"
}
