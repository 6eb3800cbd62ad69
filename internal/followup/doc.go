// Package followup places the floating follow-up control next to a valid
// selection and turns an activation into a "Follow up on" prompt.
//
// Placement starts below the selection's trailing edge, centered on it, and
// corrects each axis separately when the control would leave the viewport:
// pinned to the selection's left edge on left overflow, to its right edge on
// right overflow, and flipped above the selection on bottom overflow.
package followup
