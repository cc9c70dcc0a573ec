package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/match"
	"github.com/ziadkadry99/shop-scout/internal/session"
)

// handleSearchCatalog filters the catalog with the given attribute filters.
func (s *Server) handleSearchCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefs := map[string]string{}
	if v := request.GetString("brand", ""); v != "" {
		prefs[session.KeyBrand] = v
	}
	if v := request.GetString("color", ""); v != "" {
		prefs[session.KeyColor] = v
	}
	if v := request.GetString("category", ""); v != "" {
		prefs[session.KeyCategory] = v
	}
	if v := request.GetString("price_range", ""); v != "" {
		prefs[session.KeyPriceRange] = v
	}

	products, err := s.catalog.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog unavailable: %v", err)), nil
	}

	matched := s.matcher.Match(match.FromPreferences("", prefs), products)
	if len(matched) == 0 {
		return mcp.NewToolResultText("No products match those filters."), nil
	}
	return mcp.NewToolResultText(formatProducts(matched)), nil
}

// handleRecommendProducts runs the match engine for a product type and
// preference set, exactly as the recommendation stage does.
func (s *Server) handleRecommendProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productType, err := request.RequireString("product_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: product_type"), nil
	}

	prefs := map[string]string{}
	if raw, ok := request.GetArguments()["preferences"].(map[string]any); ok {
		for k, v := range raw {
			if str, ok := v.(string); ok {
				prefs[k] = str
			}
		}
	}

	products, err := s.catalog.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog unavailable: %v", err)), nil
	}

	matched := s.matcher.Match(match.FromPreferences(productType, prefs), products)
	if len(matched) == 0 {
		return mcp.NewToolResultText("No matching products found. Loosen the preferences or use \"any\"."), nil
	}
	return mcp.NewToolResultText(formatProducts(matched)), nil
}

// handleCheckInventory reports stock for one product.
func (s *Server) handleCheckInventory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("product_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("missing or invalid parameter: product_id"), nil
	}

	inStock, err := s.inventory.InStock(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inventory check failed: %v", err)), nil
	}

	if inStock {
		return mcp.NewToolResultText(fmt.Sprintf("Product %d is in stock.", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Product %d is currently out of stock.", id)), nil
}

// handleFeedbackStats reports the average session rating.
func (s *Server) handleFeedbackStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	avg, err := s.feedback.AverageRating(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("feedback stats failed: %v", err)), nil
	}
	if avg == 0 {
		return mcp.NewToolResultText("No feedback recorded yet."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Average feedback rating: %.2f/5", avg)), nil
}

func formatProducts(products []catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d product(s):\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "- [%d] %s | brand: %s | color: %s | price: %.0f | category: %s\n",
			p.ID, p.Name, p.Brand, p.Color, p.Price, p.Category)
	}
	return b.String()
}
