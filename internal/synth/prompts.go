package synth

import (
	"bulkclean/internal/completion"
	"bulkclean/internal/record"
	"bulkclean/internal/validate"
)

// Prompt preambles carry their own few-shot examples; the adapter appends
// the per-record Input/Output scaffold. The stop token is enforced by the
// request options, the "%%" in the examples teaches the model to emit it.
const (
	numberPrompt = `Extract the phone from the following string, and append "%%" DIRECTLY after the number.

!!! Format the number using the following format: "XXX-XXX-XXXX%%", with "X" representing a digit 0-9.
!!! If there is no phone number present in the following text, return "NA" followed by "%%"

Input: "(513)-153-5915, johnnyappleseed@gmail.com"
Output: 513-153-5915%%

Input: "John Cena, johncena@vivery.org, 603-654-4524"
Output: 603-654-4524%%`

	emailPrompt = `Please find me the EMAIL ADDRESS from the following string, and append "%%" DIRECTLY after the email extension.

!!! Format the email using the following format: "[prefix]@[domain].[extension]%%".
!!! If there is NO EMAIL PRESENT in the following text, return "NA" followed by "%%"

Input: "513-153-5915, johnnyappleseed@gmail.com"
Output: johnnyappleseed@gmail.com%%

Input: "John Cena, johncena@vivery.org, 603-654-4524"
Output: johncena@vivery.org%%`

	namePrompt = `Please tell me the first and last name of this person from the following string and append "%%" DIRECTLY after the name.

!!! Do NOT use the phone number for the name, ONLY ALPHABETICAL CHARACTERS
!!! First and Last name must start with a capital letter.
!!! The output must contain two words, and have a space separating them.
!!! If there is no name present in the following text, return "NA" followed by "%%".

Input: "johnnyappleseed"
Output: Johnny Appleseed%%

Input: "John Cena, johncena@vivery.org, 603-654-4524"
Output: John Cena%%`

	extensionPrompt = `Extract the phone extension from the following string, and append "%%" DIRECTLY after the number.

!!! Format the extension using the following format: "XXXX%%", with "X" representing a digit 0-9. The number of digits depends on the length of the phone extension.
!!! If there is no extension present in the following text, return "NA" followed by "%%"
!!! DO NOT INCLUDE NUMBERS THAT ARE APART OF EMAIL ADDRESSES OR THE BASE PHONE NUMBER, ONLY NUMBERS CLEARLY MARKED AS EXTENSIONS.

Input: "513-153-5915 EXT 5315, johnnyappleseed19845@gmail.com"
Output: 5315%%

Input: "John Cena, johncena@vivery.org, 158-159-0915"
Output: NA%%`

	languagesPrompt = `Given the following information, please determine what languages are spoken at this location. After the language, append the stop character '%%' to the end of the response.

Input:
"Location Name: 'Famous Food Pantry', Location Headline: 'NA', Location Overview: 'NA', Location Announcements: 'NA', Location Action Links: 'NA', Location Tags: 'NA', Organization Name: 'Famous Food Network', Organization About Us: 'We make the best food', Organization Tags: 'NA'"
Output:
English%%

Input:
"Location Name: 'Refugio', Location Headline: 'Refugio anónimo', Location Overview: 'NA', Location Announcements: 'NA', Location Action Links: 'NA', Location Tags: 'NA', Organization Name: 'Refugios para todos', Organization About Us: 'NA', Organization Tags: 'NA'"
Output:
Spanish%%`

	featuresPrompt = `Given the following information, please determine what location features from the list below could be available at this location.
!!! ONLY USE THE FEATURES LISTED BELOW !!!.
After the feature, append the stop character '%%' to the end of the response.

Feature List:
    - Air Conditioning
    - Near Public Transit
    - Parking Available
    - Restroom Available
    - Safe Space
    - Seating in Waiting Area
    - Wheelchair Accessible
    - WiFi Available

Input: "Location Name: 'Famous Food Pantry', Location Headline: 'NA', Location Overview: 'Free Wifi and Public Washrooms', Location Announcements: 'NA', Location Action Links: 'NA', Location Tags: 'NA', Organization Name: 'Famous Food Network', Organization About Us: 'We make the best food', Organization Tags: 'NA'"
Output: WiFi Available/Restroom Available%%

Input: "Location Name: 'Refugio', Location Headline: 'Refugio anónimo', Location Overview: 'ramp access', Location Announcements: 'NA', Location Action Links: 'NA', Location Tags: 'NA', Organization Name: 'Refugios para todos', Organization About Us: 'Providing shelter in both english and spanish.', Organization Tags: 'NA'"
Output: Wheelchair Accessible%%

Input: "Location Name: 'Pantry', Location Headline: 'NA', Location Overview: 'We provide food access to impoverished communities.', Location Announcements: 'NA', Location Action Links: 'NA', Location Tags: 'NA', Organization Name: 'Pantry Network', Organization About Us: 'NA', Organization Tags: 'NA'"
Output: NA%%`
)

// ContactFieldSpecs returns the ordered field prompts for primary contact
// extraction. The order matches the output column order.
func ContactFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: validate.FieldNumber, Template: completion.FewShot(numberPrompt)},
		{Name: validate.FieldEmail, Template: completion.FewShot(emailPrompt)},
		{Name: validate.FieldName, Template: completion.FewShot(namePrompt)},
		{Name: validate.FieldExtension, Template: completion.FewShot(extensionPrompt)},
	}
}

// HoursFieldSpecs returns the single-question hours prompt. The hours model
// is fine-tuned, so the prompt is the bare question scaffold rather than a
// few-shot preamble.
func HoursFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: validate.FieldHours, Template: completion.QA()},
	}
}

// NameTemplate returns the name extraction prompt on its own. Repair reuses
// it with a reduced case text.
func NameTemplate() completion.Template {
	return completion.FewShot(namePrompt)
}

// Tag field names.
const (
	FieldLanguages = "Languages Spoken"
	FieldFeatures  = "Location Features"
)

// TagFieldSpecs returns the location tag prompts. Tag prompts see the whole
// labeled row rather than the concatenated raw text.
func TagFieldSpecs(columns []string) []FieldSpec {
	labeled := func(r record.Record) string {
		return record.LabeledRaw(r, columns)
	}
	return []FieldSpec{
		{Name: FieldLanguages, Template: completion.FewShot(languagesPrompt), Case: labeled},
		{Name: FieldFeatures, Template: completion.FewShot(featuresPrompt), Case: labeled},
	}
}
