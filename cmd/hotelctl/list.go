package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"hotel_directory/internal/adapters/hotelsapi"
	"hotel_directory/internal/domain"
)

var (
	listBase       string
	listName       string
	listCategory   string
	listRating     string
	listPhone      string
	listPrice      string
	listParking    bool
	listRestaurant bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List hotels from a running API",
	Long:  "List every hotel, or those matching one filter flag, as indented JSON.",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listBase, "base", "http://localhost:3000", "API base URL")
	listCmd.Flags().StringVar(&listName, "name", "", "filter by name")
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	listCmd.Flags().StringVar(&listRating, "rating", "", "filter by rating")
	listCmd.Flags().StringVar(&listPhone, "phone", "", "filter by phone number")
	listCmd.Flags().StringVar(&listPrice, "price", "", "filter by price range")
	listCmd.Flags().BoolVar(&listParking, "parking", false, "only hotels with parking")
	listCmd.Flags().BoolVar(&listRestaurant, "restaurant", false, "only hotels with a restaurant")
	listCmd.MarkFlagsMutuallyExclusive("name", "category", "rating", "phone", "price", "parking", "restaurant")
}

func listFilter() (domain.Filter, error) {
	switch {
	case listName != "":
		return domain.Filter{Field: domain.FieldName, Value: listName}, nil
	case listCategory != "":
		return domain.Filter{Field: domain.FieldCategory, Value: listCategory}, nil
	case listRating != "":
		if _, err := strconv.ParseFloat(listRating, 64); err != nil {
			return domain.Filter{}, fmt.Errorf("--rating must be a number: %w", err)
		}
		return domain.Filter{Field: domain.FieldRating, Value: listRating}, nil
	case listPhone != "":
		return domain.Filter{Field: domain.FieldPhoneNumber, Value: listPhone}, nil
	case listPrice != "":
		return domain.Filter{Field: domain.FieldPriceRange, Value: listPrice}, nil
	case listParking:
		return domain.Filter{Field: domain.FieldIsParkingAvailable, Value: true}, nil
	case listRestaurant:
		return domain.Filter{Field: domain.FieldIsRestaurantAvailable, Value: true}, nil
	}
	return domain.Filter{}, nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	f, err := listFilter()
	if err != nil {
		return err
	}
	client, err := hotelsapi.New(listBase, 5)
	if err != nil {
		return err
	}
	hotels, err := client.ListHotels(ctx, f)
	if err != nil {
		return err
	}
	if len(hotels) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No hotels found.")
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(hotels)
}
