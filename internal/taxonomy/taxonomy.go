// Package taxonomy defines the static ISO 27001 checklist registry used by
// the compliance scorer. The table is read-only after process start and
// keyed by a small dense integer id.
package taxonomy

// Entry describes one ISO 27001 checklist area. Keywords give a coarse
// coverage signal; Requirements are discrete, independently checkable
// statements used for fine-grained coverage counting.
type Entry struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Controls     []string `json:"controls"`
	Keywords     []string `json:"keywords"`
	Requirements []string `json:"requirement_checklist"`
}

// Get returns the entry for id. The second return is false when the id is
// not registered; callers treat that as an unknown taxonomy with empty
// keyword and control lists, not a hard error.
func Get(id int) (Entry, bool) {
	entry, ok := entries[id]
	return entry, ok
}

// All returns the registered entries in id order.
func All() []Entry {
	out := make([]Entry, 0, len(entries))
	for id := 1; ; id++ {
		entry, ok := entries[id]
		if !ok {
			break
		}
		out = append(out, entry)
	}
	return out
}

var entries = map[int]Entry{
	1: {
		ID:    1,
		Title: "A.5 Information Security Policies",
		Controls: []string{
			"A.5.1 Management direction for information security",
			"A.5.1.1 Policies for information security",
			"A.5.1.2 Review of the policies for information security",
		},
		Keywords: []string{
			"information security policy",
			"security policy",
			"policy review",
			"management commitment",
			"policy approval",
			"policy communication",
		},
		Requirements: []string{
			"A documented information security policy is approved by management",
			"Policies are communicated to employees and relevant external parties",
			"Policies are reviewed at planned intervals or after significant changes",
			"Management demonstrates commitment to information security objectives",
		},
	},
	2: {
		ID:    2,
		Title: "A.6 Organization of Information Security",
		Controls: []string{
			"A.6.1 Internal organization",
			"A.6.1.1 Information security roles and responsibilities",
			"A.6.1.2 Segregation of duties",
			"A.6.1.3 Contact with authorities",
			"A.6.1.4 Contact with special interest groups",
			"A.6.1.5 Information security in project management",
			"A.6.2 Mobile devices and teleworking",
			"A.6.2.1 Mobile device policy",
			"A.6.2.2 Teleworking",
		},
		Keywords: []string{
			"roles",
			"responsibilities",
			"segregation",
			"duties",
			"mobile device",
			"teleworking",
			"remote work",
			"project management",
		},
		Requirements: []string{
			"Information security roles and responsibilities are defined and allocated",
			"Conflicting duties are segregated to reduce opportunities for misuse",
			"Contacts with relevant authorities and interest groups are maintained",
			"Information security is addressed within project management",
			"A mobile device policy governs the risks of portable equipment",
			"Teleworking activity is protected by documented safeguards",
		},
	},
	3: {
		ID:    3,
		Title: "A.7 Human Resource Security",
		Controls: []string{
			"A.7.1 Prior to employment",
			"A.7.1.1 Screening",
			"A.7.1.2 Terms and conditions of employment",
			"A.7.2 During employment",
			"A.7.2.1 Management responsibilities",
			"A.7.2.2 Information security awareness, education and training",
			"A.7.2.3 Disciplinary process",
			"A.7.3 Termination and change of employment",
			"A.7.3.1 Termination or change of employment responsibilities",
		},
		Keywords: []string{
			"screening",
			"background check",
			"employment",
			"training",
			"awareness",
			"disciplinary",
			"termination",
			"onboarding",
			"offboarding",
		},
		Requirements: []string{
			"Background verification checks are performed on candidates before employment",
			"Terms and conditions of employment state security responsibilities",
			"Employees receive security awareness education and regular training",
			"A formal disciplinary process addresses security violations",
			"Security responsibilities remain valid after termination or change of employment",
		},
	},
	4: {
		ID:    4,
		Title: "A.8 Asset Management",
		Controls: []string{
			"A.8.1 Responsibility for assets",
			"A.8.1.1 Inventory of assets",
			"A.8.1.2 Ownership of assets",
			"A.8.1.3 Acceptable use of assets",
			"A.8.1.4 Return of assets",
			"A.8.2 Information classification",
			"A.8.2.1 Classification of information",
			"A.8.2.2 Labelling of information",
			"A.8.2.3 Handling of assets",
			"A.8.3 Media handling",
			"A.8.3.1 Management of removable media",
			"A.8.3.2 Disposal of media",
			"A.8.3.3 Physical media transfer",
		},
		Keywords: []string{
			"asset inventory",
			"asset management",
			"classification",
			"labelling",
			"media handling",
			"removable media",
			"disposal",
			"asset ownership",
		},
		Requirements: []string{
			"An inventory of assets is maintained and kept accurate",
			"Assets have designated owners accountable for their protection",
			"Rules for acceptable use of assets are documented",
			"Information is classified according to sensitivity and criticality",
			"Removable media is managed according to the classification scheme",
			"Media is disposed of securely when no longer required",
		},
	},
	5: {
		ID:    5,
		Title: "A.9 Access Control",
		Controls: []string{
			"A.9.1 Business requirements of access control",
			"A.9.1.1 Access control policy",
			"A.9.1.2 Access to networks and network services",
			"A.9.2 User access management",
			"A.9.2.1 User registration and de-registration",
			"A.9.2.2 User access provisioning",
			"A.9.2.3 Management of privileged access rights",
			"A.9.2.4 Management of secret authentication information of users",
			"A.9.2.5 Review of user access rights",
			"A.9.2.6 Removal or adjustment of access rights",
			"A.9.3 User responsibilities",
			"A.9.3.1 Use of secret authentication information",
			"A.9.4 System and application access control",
			"A.9.4.1 Information access restriction",
			"A.9.4.2 Secure log-on procedures",
			"A.9.4.3 Password management system",
			"A.9.4.4 Use of privileged utility programs",
			"A.9.4.5 Access control to program source code",
		},
		Keywords: []string{
			"access control",
			"authentication",
			"authorization",
			"password",
			"user management",
			"privileged access",
			"access rights",
			"login",
			"user registration",
		},
		Requirements: []string{
			"An access control policy is established and periodically reviewed",
			"User registration and deregistration follow a formal process",
			"Privileged access rights are restricted and controlled",
			"User access rights are reviewed at regular intervals",
			"Passwords are managed through an enforced quality system",
			"Access to program source code is restricted",
		},
	},
}
