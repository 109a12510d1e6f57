package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
)

// WardrobeItems lists every item stored for userID.
func (c *Client) WardrobeItems(ctx context.Context, userID string) ([]domain.WardrobeItem, error) {
	var resp struct {
		Items []domain.WardrobeItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/wardrobe/items/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []domain.WardrobeItem{}
	}
	return resp.Items, nil
}

// UploadWardrobeItem sends one photo; the backend categorises it and returns
// the stored item.
func (c *Client) UploadWardrobeItem(ctx context.Context, userID string, photo domain.Photo) (domain.WardrobeItem, error) {
	body, err := multipartPayload([]formField{{"user_id", userID}}, "file", &photo)
	if err != nil {
		return domain.WardrobeItem{}, err
	}

	var resp struct {
		Item domain.WardrobeItem `json:"item"`
	}
	if err := c.do(ctx, http.MethodPost, "/wardrobe/upload", &body, &resp); err != nil {
		return domain.WardrobeItem{}, err
	}
	return resp.Item, nil
}

// DeleteWardrobeItem removes itemID from userID's wardrobe.
func (c *Client) DeleteWardrobeItem(ctx context.Context, userID, itemID string) error {
	path := "/wardrobe/items/" + url.PathEscape(itemID) + "?" + url.Values{"user_id": {userID}}.Encode()
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// OutfitRequest asks for outfit suggestions built from the user's wardrobe.
type OutfitRequest struct {
	UserID   string `json:"user_id"`
	Occasion string `json:"occasion,omitempty"`
}

// GenerateOutfits returns outfit recommendations for the request.
func (c *Client) GenerateOutfits(ctx context.Context, req OutfitRequest) ([]domain.OutfitRecommendation, error) {
	body, err := jsonPayload(req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Recommendations []domain.OutfitRecommendation `json:"recommendations"`
		Outfits         []domain.OutfitRecommendation `json:"outfits"`
	}
	if err := c.do(ctx, http.MethodPost, "/wardrobe/generate-outfit-recommendations", &body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Recommendations) == 0 {
		return resp.Outfits, nil
	}
	return resp.Recommendations, nil
}
