package mysql

const insertProfileSQL = `
INSERT INTO profiles
  (uid, email, name, photo_url, full_name, phone_number, date_of_birth, nationality,
   preferred_language, travel_preferences, dietary_restrictions, preferred_accommodation,
   budget_range, special_requirements, profile_completed, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateProfileSQL = `
UPDATE profiles SET
  full_name               = ?,
  phone_number            = ?,
  date_of_birth           = ?,
  nationality             = ?,
  preferred_language      = ?,
  travel_preferences      = ?,
  dietary_restrictions    = ?,
  preferred_accommodation = ?,
  budget_range            = ?,
  special_requirements    = ?,
  profile_completed       = ?,
  updated_at              = ?
WHERE uid = ?
`

const getProfileSQL = `
SELECT uid, email, name, photo_url, full_name, phone_number, date_of_birth, nationality,
       preferred_language, travel_preferences, dietary_restrictions, preferred_accommodation,
       budget_range, special_requirements, profile_completed, created_at, updated_at
FROM profiles
WHERE uid = ?
`

const insertContactSQL = `
INSERT INTO contact_messages (id, uid, name, email, subject, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
