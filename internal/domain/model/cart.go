package model

import "github.com/shopspring/decimal"

// CartProductはカートに入れた時点の商品情報
// 価格は追加時点のものを使い、後から再計算しない
type CartProduct struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Brand  string          `json:"brand"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
	Sizes  []string        `json:"sizes"`
	Colors []string        `json:"colors"`
}

// カートの明細
type CartLineItem struct {
	Product  CartProduct `json:"product"`
	Size     string      `json:"size"`
	Color    string      `json:"color"`
	Quantity int         `json:"quantity"`
}

// CartKeyは明細を一意に決める (product id, size, color)
type CartKey struct {
	ProductID string
	Size      string
	Color     string
}

func (i CartLineItem) Key() CartKey {
	return CartKey{ProductID: i.Product.ID, Size: i.Size, Color: i.Color}
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartState
// 同じキーの明細は1つだけ、quantityは常に1以上。
// IsOpenは画面表示用で保存しない。
type CartState struct {
	Items  []CartLineItem `json:"items"`
	IsOpen bool           `json:"-"`
}

func (s *CartState) indexOf(key CartKey) int {
	for i, it := range s.Items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// Addは同じキーがあれば数量を加算、無ければ末尾に追加してパネルを開く
func (s *CartState) Add(p CartProduct, size, color string, qty int) {
	if qty < 1 {
		qty = 1
	}
	key := CartKey{ProductID: p.ID, Size: size, Color: color}

	if i := s.indexOf(key); i >= 0 {
		s.Items[i].Quantity = max(s.Items[i].Quantity+qty, 1)
	} else {
		s.Items = append(s.Items, CartLineItem{
			Product:  p,
			Size:     size,
			Color:    color,
			Quantity: qty,
		})
	}
	s.IsOpen = true
}

// Removeは無くてもエラーにしない
func (s *CartState) Remove(key CartKey) {
	i := s.indexOf(key)
	if i < 0 {
		return
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
}

// SetQuantityは0以下なら削除と同じ
func (s *CartState) SetQuantity(key CartKey, qty int) {
	if qty <= 0 {
		s.Remove(key)
		return
	}
	if i := s.indexOf(key); i >= 0 {
		s.Items[i].Quantity = qty
	}
}

func (s *CartState) Clear() {
	s.Items = []CartLineItem{}
}

// Subtractはitemsの数量だけ差し引く。0以下になった明細は消す
// 注文済みの分だけ落とし、その間に追加された分は残す
func (s *CartState) Subtract(items []CartLineItem) {
	for _, it := range items {
		i := s.indexOf(it.Key())
		if i < 0 {
			continue
		}
		if s.Items[i].Quantity -= it.Quantity; s.Items[i].Quantity <= 0 {
			s.Remove(it.Key())
		}
	}
}

func (s *CartState) Open()   { s.IsOpen = true }
func (s *CartState) Close()  { s.IsOpen = false }
func (s *CartState) Toggle() { s.IsOpen = !s.IsOpen }

// 合計は毎回itemsから計算する
func (s CartState) TotalItems() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func (s CartState) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Cloneは外に渡す用のコピー
func (s CartState) Clone() CartState {
	items := make([]CartLineItem, len(s.Items))
	copy(items, s.Items)
	return CartState{Items: items, IsOpen: s.IsOpen}
}
