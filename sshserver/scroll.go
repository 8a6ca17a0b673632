package sshserver

// scrollView tracks how far the viewport sits above the newest row.
// offset is counted in rows from the bottom; 0 means following output.
type scrollView struct {
	offset int
	total  int
}

// Sync records the current row count. When the view is scrolled up it is
// kept anchored on the same rows as output grows or shrinks.
func (v *scrollView) Sync(total int) {
	if v.offset > 0 {
		v.offset += total - v.total
	}
	if v.offset < 0 {
		v.offset = 0
	}
	v.total = total
}

// Scroll moves the view by delta rows. Positive delta scrolls toward older
// rows. height is the viewport height.
func (v *scrollView) Scroll(delta, height int) {
	v.offset = clampScroll(v.offset+delta, v.total, height)
}

// Reset returns the view to the bottom.
func (v *scrollView) Reset() {
	v.offset = 0
}

// AtBottom reports whether the view follows output.
func (v *scrollView) AtBottom() bool {
	return v.offset == 0
}

// Window returns the rows visible in a viewport of height, padded with
// empty rows at the bottom when there is not enough output.
func (v *scrollView) Window(rows []string, height int) []string {
	if height <= 0 {
		return nil
	}
	total := len(rows)
	v.offset = clampScroll(v.offset, total, height)
	end := total - v.offset
	start := end - height
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, height)
	out = append(out, rows[start:end]...)
	for len(out) < height {
		out = append(out, "")
	}
	return out
}

func maxScroll(total, height int) int {
	if total <= 0 || height <= 0 || total <= height {
		return 0
	}
	return total - height
}

func clampScroll(offset, total, height int) int {
	if offset < 0 {
		return 0
	}
	if limit := maxScroll(total, height); offset > limit {
		return limit
	}
	return offset
}
