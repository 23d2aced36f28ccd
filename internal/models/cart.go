package models

// MaxLineQuantity is the most copies of one book a cart line can hold.
const MaxLineQuantity = 10000

// Cart is the per-session list of books to print. It lives in the session
// store, not in the database.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

type CartLine struct {
	BookID      uint   `json:"book_id"`
	BookName    string `json:"book_name"`
	PageCount   int    `json:"page_count"`
	SubjectName string `json:"subject_name"`
	YearName    string `json:"year_name"`
	Quantity    int    `json:"quantity"`
}

// Add puts one more copy of the book in the cart, appending a new line when
// the book is not there yet. It reports false when the line is already at
// MaxLineQuantity.
func (c *Cart) Add(book BookView) bool {
	for i := range c.Lines {
		if c.Lines[i].BookID == book.ID {
			if c.Lines[i].Quantity >= MaxLineQuantity {
				return false
			}
			c.Lines[i].Quantity++
			return true
		}
	}
	c.Lines = append(c.Lines, CartLine{
		BookID:      book.ID,
		BookName:    book.Name,
		PageCount:   book.PageCount,
		SubjectName: book.SubjectName,
		YearName:    book.YearName,
		Quantity:    1,
	})
	return true
}

// Remove drops every line for bookID. It reports whether anything was removed.
func (c *Cart) Remove(bookID uint) bool {
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if line.BookID != bookID {
			kept = append(kept, line)
		}
	}
	removed := len(kept) != len(c.Lines)
	c.Lines = kept
	return removed
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(bookID uint, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(bookID)
	}
	for i := range c.Lines {
		if c.Lines[i].BookID == bookID {
			c.Lines[i].Quantity = quantity
			return true
		}
	}
	return false
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

func (c *Cart) TotalCopies() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}
