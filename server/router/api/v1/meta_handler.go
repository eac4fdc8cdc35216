package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type modelOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type suggestedPrompt struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var models = []modelOption{
	{Label: "Claude 3.5 Sonnet", Value: "anthropic/claude-3.5-sonnet"},
}

var suggestedPrompts = []suggestedPrompt{
	{
		Title:       "لندینگ محصول",
		Description: "یه لندینگ پیج تعاملی برای محصول جدیدمون می‌خوام که ویژگی‌های محصول رو به شکل جذاب نشون بده و نرخ تبدیل رو بالا ببره 🎯",
	},
	{
		Title:       "گیمیفیکیشن خرید",
		Description: "یه بازی سرگرم‌کننده برای صفحه محصول می‌خوام که کاربر با بازی کردن تخفیف بگیره و انگیزه خریدش بیشتر بشه 🎮",
	},
	{
		Title:       "کمپین فصلی",
		Description: "یه صفحه فرود برای کمپین فصلی می‌خوام که با المان‌های تعاملی و شمارش معکوس، حس فوریت ایجاد کنه و فروش رو بالا ببره ⏰",
	},
	{
		Title:       "مسابقه خرید",
		Description: "یه چالش خرید هفتگی می‌خوام که مشتری‌ها با هر خرید امتیاز بگیرن و برنده‌ها جوایز ویژه ببرن 🏆",
	},
}

// ListModels handles GET /api/v1/models.
func (s *APIV1Service) ListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, models)
}

// ListSuggestions handles GET /api/v1/suggestions.
func (s *APIV1Service) ListSuggestions(c echo.Context) error {
	return c.JSON(http.StatusOK, suggestedPrompts)
}
