// Package domain contains the shared entities of the divination service:
// the system tags, the biographical input every calculator consumes, the
// stored-result envelope and the sentinel errors used across layers.
//
// The calculators themselves live in sub-packages (cycle, numerology,
// fourpillars, sanmei, animal, mbti) and the cross-profile engine lives in
// compare. None of them perform I/O.
package domain
