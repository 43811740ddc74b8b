package api

import (
	"github.com/rflgf/mahjong-cli/common/http"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

type yakuView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func yakuViews(yakus []mahjong.Yaku) []yakuView {
	out := make([]yakuView, len(yakus))
	for i, y := range yakus {
		out[i] = yakuView{Key: y.Key(), Label: y.String()}
	}
	return out
}

// CatalogHandler 全部役种
func CatalogHandler(c *http.Context) error {
	c.Success(yakuViews(mahjong.Catalog()))
	return nil
}

// SuccessorHandler 宝牌指示牌对应的宝牌
func SuccessorHandler(c *http.Context) error {
	t, err := mahjong.ParseTile(c.GetParam("code"))
	if err != nil {
		c.BadRequest(err.Error())
		return nil
	}
	c.Success(map[string]mahjong.Tile{
		"tile":      t,
		"successor": t.Successor(),
	})
	return nil
}
