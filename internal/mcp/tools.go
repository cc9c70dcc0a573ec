package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchCatalogTool defines the search_catalog MCP tool.
var searchCatalogTool = mcp.NewTool("search_catalog",
	mcp.WithDescription("Search the product catalog with fuzzy, typo-tolerant attribute filters. Use \"any\" or omit an attribute for no constraint."),
	mcp.WithString("category",
		mcp.Description("Product category, e.g. sneakers, electronics"),
	),
	mcp.WithString("brand",
		mcp.Description("Brand filter (fuzzy, case-insensitive)"),
	),
	mcp.WithString("color",
		mcp.Description("Color filter (fuzzy, case-insensitive)"),
	),
	mcp.WithString("price_range",
		mcp.Description("Price constraint as 'min-max' or a single upper bound, e.g. '0-5000' or '5000'"),
	),
)

// recommendProductsTool defines the recommend_products MCP tool.
var recommendProductsTool = mcp.NewTool("recommend_products",
	mcp.WithDescription("Run the recommendation match engine for a product type with user preferences."),
	mcp.WithString("product_type",
		mcp.Required(),
		mcp.Description("The kind of product the user wants, e.g. sneakers"),
	),
	mcp.WithObject("preferences",
		mcp.Description("Attribute preferences, e.g. {\"brand\":\"nike\",\"color\":\"white\",\"price_range\":\"0-5000\"}"),
	),
)

// checkInventoryTool defines the check_inventory MCP tool.
var checkInventoryTool = mcp.NewTool("check_inventory",
	mcp.WithDescription("Check whether a product is currently in stock."),
	mcp.WithNumber("product_id",
		mcp.Required(),
		mcp.Description("The catalog id of the product"),
	),
)

// feedbackStatsTool defines the get_feedback_stats MCP tool.
var feedbackStatsTool = mcp.NewTool("get_feedback_stats",
	mcp.WithDescription("Get the average feedback rating across all sessions."),
)
