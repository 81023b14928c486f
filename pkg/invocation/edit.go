package invocation

// The edit functions never modify their input; they return a fresh copy so the
// caller can write it back to the document and keep the old value as the view.

func (f File) clone() File {
	out := make(File, len(f))
	copy(out, f)
	return out
}

// InRange reports whether i indexes a step of f.
func (f File) InRange(i int) bool {
	return i >= 0 && i < len(f)
}

// Reorders reports whether Move(f, from, to) changes the order of the steps.
func (f File) Reorders(from, to int) bool {
	return f.InRange(from) && to >= 0 && to <= len(f) && to != from && to != from+1
}

// Update replaces the step at index i. Out of range indices return an unchanged copy.
func Update(f File, i int, step Step) File {
	out := f.clone()
	if !out.InRange(i) {
		return out
	}
	out[i] = normalize(step)
	return out
}

// Add appends an empty step.
func Add(f File) File {
	return append(f.clone(), Step{})
}

// Delete removes the step at index i.
func Delete(f File, i int) File {
	out := f.clone()
	if !out.InRange(i) {
		return out
	}
	return append(out[:i], out[i+1:]...)
}

// Move takes the step at from and inserts it before the step that was at
// position to in the original numbering. Moving onto itself or onto the next
// index leaves the order unchanged.
func Move(f File, from, to int) File {
	out := f.clone()
	if !out.Reorders(from, to) {
		return out
	}

	step := out[from]
	out = append(out[:from], out[from+1:]...)
	if to > from {
		to--
	}

	out = append(out, Step{})
	copy(out[to+1:], out[to:])
	out[to] = step
	return out
}
