package mysql

const createHotelsSQL = `
CREATE TABLE IF NOT EXISTS hotels (
  id                      CHAR(24)     NOT NULL,
  name                    VARCHAR(255) NULL,
  category                VARCHAR(255) NULL,
  price_range             JSON         NULL,
  rating                  DOUBLE       NULL,
  phone_number            VARCHAR(64)  NULL,
  is_parking_available    TINYINT(1)   NULL,
  is_restaurant_available TINYINT(1)   NULL,
  created_at              TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at              TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_name (name),
  KEY idx_category (category),
  KEY idx_rating (rating),
  KEY idx_phone_number (phone_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertHotelSQL = `
INSERT INTO hotels
  (id, name, category, price_range, rating, phone_number, is_parking_available, is_restaurant_available)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

// Column order must match scanHotel.
const selectHotelCols = `
SELECT id, name, category, price_range, rating, phone_number, is_parking_available, is_restaurant_available
FROM hotels
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

// columns maps hotel attributes to their column names.
var columns = map[string]string{
	"name":                  "name",
	"category":              "category",
	"priceRange":            "price_range",
	"rating":                "rating",
	"phoneNumber":           "phone_number",
	"isParkingAvailable":    "is_parking_available",
	"isRestaurantAvailable": "is_restaurant_available",
}
