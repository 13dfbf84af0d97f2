package service

import "github.com/pageza/feedback/backend/internal/models"

// Page is one window of a sentiment listing
type Page struct {
	Kind    string
	Items   []models.Feedback
	Number  int
	PerPage int
	Total   int64
}

// Pages is the total number of pages
func (p *Page) Pages() int {
	if p.PerPage < 1 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p *Page) HasPrev() bool { return p.Number > 1 }
func (p *Page) HasNext() bool { return p.Number < p.Pages() }
func (p *Page) PrevNum() int  { return p.Number - 1 }
func (p *Page) NextNum() int  { return p.Number + 1 }

// IterPages lists the page numbers worth linking to: the two first and
// last pages and a window around the current one. A 0 marks a gap.
func (p *Page) IterPages() []int {
	const (
		leftEdge     = 2
		leftCurrent  = 2
		rightCurrent = 5
		rightEdge    = 2
	)

	pages := p.Pages()
	var out []int
	last := 0
	for num := 1; num <= pages; num++ {
		if num <= leftEdge ||
			(num > p.Number-leftCurrent-1 && num < p.Number+rightCurrent) ||
			num > pages-rightEdge {
			if last+1 != num {
				out = append(out, 0)
			}
			out = append(out, num)
			last = num
		}
	}
	return out
}
